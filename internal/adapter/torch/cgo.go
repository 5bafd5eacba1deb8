//go:build jams_torch

package torch

// cgo link directives for the in-process libtorch adapter, mirroring the
// rpath/linker setup the llama adapter uses for its shared libraries.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../../bin -ltorch -lc10
*/
import "C"
