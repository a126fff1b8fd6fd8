package cache

import (
	"context"
	"strconv"
	"sync/atomic"
)

// Generation счётчик версий набора записей. Каждая запись в БД
// увеличивает его, кэш хранит значения под ключом с номером версии.
type Generation interface {
	Current(ctx context.Context) (int64, error)
	Bump(ctx context.Context) (int64, error)
}

// LocalGeneration счётчик в памяти процесса, для работы без Redis
type LocalGeneration struct {
	n atomic.Int64
}

func NewLocalGeneration() *LocalGeneration { return &LocalGeneration{} }

func (g *LocalGeneration) Current(context.Context) (int64, error) { return g.n.Load(), nil }

func (g *LocalGeneration) Bump(context.Context) (int64, error) { return g.n.Add(1), nil }

// Versioned кэш, ключи которого привязаны к версии набора записей.
// Читатель берёт версию до чтения из БД и кладёт результат под неё:
// если запись в БД успела смениться, значение осядет под устаревшей
// версией и больше не будет прочитано.
type Versioned struct {
	c   *Cache
	gen Generation
}

func NewVersioned(c *Cache, gen Generation) *Versioned {
	return &Versioned{c: c, gen: gen}
}

// Version текущая версия набора записей
func (v *Versioned) Version(ctx context.Context) (int64, error) {
	return v.gen.Current(ctx)
}

func (v *Versioned) Get(version int64, key string) (interface{}, bool) {
	return v.c.Get(versionedKey(version, key))
}

func (v *Versioned) Set(version int64, key string, value interface{}) {
	v.c.Set(versionedKey(version, key), value)
}

// Invalidate вызывается после записи в БД: новая версия отсекает
// кэш всех реплик, локальные записи удаляются сразу.
func (v *Versioned) Invalidate(ctx context.Context) error {
	_, err := v.gen.Bump(ctx)
	v.c.Flush()
	return err
}

func versionedKey(version int64, key string) string {
	return strconv.FormatInt(version, 10) + ":" + key
}
