//go:build jams_tensorflow

package tensorflow

// cgo link directives for the in-process TensorFlow adapter.
// - We set an rpath of $ORIGIN so the runtime loader finds libtensorflow.so
//   in the same directory as the built Go binary (./bin).
// - We add -L${SRCDIR}/../../../bin so the linker finds libtensorflow.so at
//   link time when building the 'jams_tensorflow' variant.
/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../../bin -ltensorflow
*/
import "C"
