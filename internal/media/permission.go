package media

import "context"

// PermissionPolicy grants or refuses media library access at the moment a
// download asks for it
type PermissionPolicy interface {
	Request(ctx context.Context) (bool, error)
}

// StaticPermission answers every request the same way
type StaticPermission bool

func (p StaticPermission) Request(ctx context.Context) (bool, error) {
	return bool(p), nil
}
