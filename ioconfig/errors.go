package ioconfig

import "github.com/edmdsim/dynamogo/simerr"

func newConfigErr(n *Node, format string, args ...any) *simerr.ConfigError {
	where := "ioconfig"
	if n != nil {
		where = "ioconfig:<" + n.XMLName.Local + ">"
	}
	return simerr.NewConfigError(where, format, args...)
}
