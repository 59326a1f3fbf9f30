package download

import (
	"context"
	"os"
	"path/filepath"
)

// Permission decides whether saving into dir is allowed.
type Permission interface {
	Request(ctx context.Context, dir string) (bool, error)
}

// PermissionFunc adapts a function to Permission.
type PermissionFunc func(ctx context.Context, dir string) (bool, error)

func (f PermissionFunc) Request(ctx context.Context, dir string) (bool, error) {
	return f(ctx, dir)
}

// Granted always allows downloads.
var Granted Permission = PermissionFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// Denied never allows downloads.
var Denied Permission = PermissionFunc(func(context.Context, string) (bool, error) {
	return false, nil
})

// WritableDir grants permission when dir can be created and written to.
type WritableDir struct{}

func (WritableDir) Request(ctx context.Context, dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, nil
	}
	tmp := filepath.Join(dir, ".write_test")
	f, err := os.Create(tmp)
	if err != nil {
		return false, nil
	}
	f.Close()
	os.Remove(tmp)
	return true, nil
}
