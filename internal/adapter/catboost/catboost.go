//go:build jams_catboost

// Package catboost adapts a CatBoost CBM model file to the
// predictor.Predictor capability. Unlike the TensorFlow/Torch adapters,
// there is no maintained third-party Go binding for CatBoost in the pack or
// the wider ecosystem, so this file binds directly to libcatboostmodel's C
// API (ModelCalcerHandle) via cgo — the same "native runtime via FFI"
// relationship the teacher's go-llama.cpp dependency has with libllama,
// just without an intermediate Go package (documented in DESIGN.md).
package catboost

/*
#cgo LDFLAGS: -Wl,-rpath,'$ORIGIN' -L${SRCDIR}/../../../bin -lcatboostmodel
#include <stdlib.h>

typedef void* ModelCalcerHandle;

ModelCalcerHandle ModelCalcerCreate();
void ModelCalcerDelete(ModelCalcerHandle handle);
const char* GetErrorString();
bool LoadFullModelFromFile(ModelCalcerHandle handle, const char* filename);
bool CalcModelPredictionFlat(ModelCalcerHandle handle, size_t docCount,
    const float** floatFeatures, size_t floatFeaturesSize,
    double* result, size_t resultSize);
size_t GetStringCatFeaturesCount(ModelCalcerHandle handle);
size_t GetFloatFeaturesCount(ModelCalcerHandle handle);
size_t GetDimensionsCount(ModelCalcerHandle handle);
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"jamsd/internal/jamserr"
	"jamsd/internal/predictor"
	"jamsd/internal/tensor"
)

// Adapter holds a loaded ModelCalcerHandle. The C API's calcer handle is not
// documented thread-safe for concurrent CalcModelPrediction calls, so an
// interior mutex guards it per spec §4.C/§9.
type Adapter struct {
	handle C.ModelCalcerHandle
	mu     sync.Mutex
}

// New loads the CBM model file at path.
func New(path string) (predictor.Predictor, error) {
	handle := C.ModelCalcerCreate()
	if handle == nil {
		return nil, jamserr.LoadError("catboost: failed to allocate model calcer", nil)
	}
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	if ok := C.LoadFullModelFromFile(handle, cPath); !bool(ok) {
		C.ModelCalcerDelete(handle)
		return nil, jamserr.LoadError(fmt.Sprintf("catboost: failed to load model at %q: %s", path, C.GoString(C.GetErrorString())), nil)
	}
	return &Adapter{handle: handle}, nil
}

// Predict packs the float columns and then the int columns, each group in
// lexicographic feature-name order, into one numeric row per batch element
// and calls the bulk flat-prediction API. String (categorical) columns are
// not passed to the model, and the model's own feature order is not read.
func (a *Adapter) Predict(ctx context.Context, input tensor.ModelInput) (predictor.Output, error) {
	select {
	case <-ctx.Done():
		return nil, jamserr.Deadline("catboost: predict canceled before native call")
	default:
	}

	batchSize, err := input.BatchSize()
	if err != nil {
		return nil, err
	}

	floatNames, floatCols := input.Floats()
	intNames, intCols := input.Ints()
	numericCount := len(floatNames) + len(intNames)
	if numericCount == 0 {
		return nil, jamserr.BadInput("catboost: input has no numeric columns", nil)
	}

	// categorical (string) columns are read through the view but dropped:
	// CatBoost's flat-prediction API used here takes only float features.
	_, _ = input.Strings()

	perRow := make([][]C.float, batchSize)
	rowPtrs := make([]*C.float, batchSize)
	for row := 0; row < batchSize; row++ {
		vals := make([]C.float, numericCount)
		idx := 0
		for i := range floatNames {
			vals[idx] = C.float(floatCols[i][row])
			idx++
		}
		for i := range intNames {
			vals[idx] = C.float(intCols[i][row])
			idx++
		}
		perRow[row] = vals
		rowPtrs[row] = &vals[0]
	}

	a.mu.Lock()
	dims := int(C.GetDimensionsCount(a.handle))
	if dims <= 0 {
		dims = 1
	}
	result := make([]C.double, batchSize*dims)
	ok := C.CalcModelPredictionFlat(a.handle, C.size_t(batchSize),
		(**C.float)(unsafe.Pointer(&rowPtrs[0])), C.size_t(numericCount),
		(*C.double)(unsafe.Pointer(&result[0])), C.size_t(len(result)))
	a.mu.Unlock()
	if !bool(ok) {
		return nil, jamserr.InferenceFailure(fmt.Sprintf("catboost: prediction failed: %s", C.GoString(C.GetErrorString())), nil)
	}

	out := make(predictor.Output, batchSize)
	for row := 0; row < batchSize; row++ {
		r := make([]float64, dims)
		for d := 0; d < dims; d++ {
			r[d] = float64(result[row*dims+d])
		}
		out[row] = r
	}
	return out, nil
}

// Close frees the native model calcer handle.
func (a *Adapter) Close() error {
	if a.handle != nil {
		C.ModelCalcerDelete(a.handle)
		a.handle = nil
	}
	return nil
}
