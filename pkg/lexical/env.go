package lexical

import (
	"context"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"

	"github.com/jimyag/lexid/pkg/apierror"
	"github.com/jimyag/lexid/pkg/counterstore"
)

// Assignment 一次环境 ID 分配的结果
type Assignment struct {
	Key string
	Env uint64
	// Warning 持久化的计数不存在时为 ErrPersistence，按首次使用处理
	Warning error
}

// AssignEnv 在存储的排他锁内分配下一个环境 ID
//
// 不存在持久化值时分配 0；否则为上次的值加一，超过 maxEnv 后回到 0。
func AssignEnv(ctx context.Context, store counterstore.Store, key string, maxEnv uint64) (Assignment, error) {
	modulus := new(big.Int).SetUint64(maxEnv)
	modulus.Add(modulus, big.NewInt(1))

	first := false
	v, err := store.Update(ctx, key, func(cur *big.Int, found bool) *big.Int {
		first = !found
		if !found {
			return new(big.Int)
		}
		next := new(big.Int).Add(cur, big.NewInt(1))
		return next.Mod(next, modulus)
	})
	if err != nil {
		return Assignment{}, fmt.Errorf("assign environment %s: %w", key, err)
	}

	a := Assignment{Key: key, Env: v.Uint64()}
	if first {
		a.Warning = apierror.Errorf(apierror.ErrPersistence,
			"counter %q not found, assigned environment 0", key)
		log.Warn().Str("key", key).Msg("Environment counter not found, treating as first use")
	}
	log.Info().Str("key", key).Uint64("env", a.Env).Msg("Environment assigned")
	return a, nil
}
