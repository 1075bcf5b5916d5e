package schema

import "strconv"

// path accumulates the dotted loggerPath used in warnings (spec §4.3:
// "root.records.foo.bar[3]").
type path struct {
	s string
}

func rootPath() path { return path{s: "root"} }

func (p path) field(name string) path {
	return path{s: p.s + "." + name}
}

func (p path) index(i int) path {
	return path{s: p.s + "[" + strconv.Itoa(i) + "]"}
}

func (p path) String() string { return p.s }
