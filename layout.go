package fx

import (
	"fmt"
	"reflect"
	"unsafe"
)

// ConstantAlignment is the required size multiple of a packed constant buffer.
const ConstantAlignment = 16

// Bytes returns the memory of v as a byte slice without copying.
// T must satisfy CheckLayout; the slice aliases v and is only valid while v is.
func Bytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v)) //nolint:gosec // POD struct serialization
}

// CheckLayout verifies that T can be uploaded verbatim as a constant buffer:
// a struct of fixed-size numeric fields (arrays and nested structs allowed)
// whose size is a non-zero multiple of ConstantAlignment.
// Failures wrap ErrInvalidLayout.
func CheckLayout[T any]() error {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s is not a struct", ErrInvalidLayout, typ)
	}
	if typ.Size() == 0 || typ.Size()%ConstantAlignment != 0 {
		return fmt.Errorf("%w: %s has size %d, want a multiple of %d",
			ErrInvalidLayout, typ, typ.Size(), ConstantAlignment)
	}
	return checkPOD(typ, typ.Name())
}

func checkPOD(typ reflect.Type, path string) error {
	switch typ.Kind() {
	case reflect.Float32, reflect.Int32, reflect.Uint32:
		return nil
	case reflect.Array:
		return checkPOD(typ.Elem(), path+"[]")
	case reflect.Struct:
		for i := range typ.NumField() {
			f := typ.Field(i)
			if err := checkPOD(f.Type, path+"."+f.Name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: field %s has unsupported type %s", ErrInvalidLayout, path, typ)
	}
}
