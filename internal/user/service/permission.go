package service

import (
	"reflect"
	"strings"

	"github.com/hogwartsschoolofmagic/user/internal/user/domain"
)

// Typed lets a value choose the type name permissions are checked against.
type Typed interface {
	PermissionType() string
}

// PermissionEvaluator grants a permission on a target type when the caller
// holds an authority that starts with the type name and contains the
// permission, e.g. USER_READ grants READ on a User.
type PermissionEvaluator struct{}

func (PermissionEvaluator) HasPermission(p *domain.Principal, target any, permission any) bool {
	perm, ok := permission.(string)
	if p == nil || !ok || isNil(target) {
		return false
	}
	return hasPrivilege(p, targetType(target), perm)
}

func (PermissionEvaluator) HasPermissionByID(p *domain.Principal, targetID any, targetType string, permission any) bool {
	perm, ok := permission.(string)
	if p == nil || !ok || targetType == "" {
		return false
	}
	return hasPrivilege(p, targetType, perm)
}

func hasPrivilege(p *domain.Principal, targetType, permission string) bool {
	targetType = strings.ToUpper(targetType)
	permission = strings.ToUpper(permission)
	for _, a := range p.Authorities {
		if strings.HasPrefix(a, targetType) && strings.Contains(a, permission) {
			return true
		}
	}
	return false
}

func targetType(target any) string {
	if t, ok := target.(Typed); ok {
		return t.PermissionType()
	}
	rt := reflect.TypeOf(target)
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Name()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
