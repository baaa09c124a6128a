package p9test

import "aqwari.net/net/p9c/p9wire"

// SeedDir is the literal Dir value the rstat_success command encodes,
// reused by tests that need to assert structural equality against
// whatever Session.Stat returns.
func SeedDir() p9wire.Dir {
	return p9wire.Dir{
		Type: 9001,
		Dev:  5,
		Qid: p9wire.Qid{
			Type:    23,
			Version: 2342,
			Path:    1337,
		},
		Mode:   p9wire.DMDIR,
		Atime:  1494443596,
		Mtime:  1494443609,
		Length: 2342,
		Name:   "testfile",
		Uid:    "testuser",
		Gid:    "testgroup",
		Muid:   "ken",
	}
}
