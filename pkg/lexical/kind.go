package lexical

import (
	"github.com/jimyag/lexid/pkg/apierror"
)

// Kind 计数器种类
type Kind string

const (
	KindRuntime   Kind = "runtime"
	KindLocal     Kind = "local"
	KindEnv       Kind = "env"
	KindThreadEnv Kind = "thread-env"
	KindShortEnv  Kind = "short-env"
	KindSLID      Kind = "slid"
)

// Kinds 所有计数器种类
var Kinds = []Kind{KindRuntime, KindLocal, KindEnv, KindThreadEnv, KindShortEnv, KindSLID}

// ParseKind 解析计数器种类
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", apierror.Errorf(apierror.ErrInvalidParameter, "unknown counter kind %q", s)
}

func (k Kind) String() string {
	return string(k)
}
