/*
Package redisstore provides an implementation of tree.Store
that keeps serialized models in a Redis database.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/tree"
	"gopkg.in/redis.v5"
)

/*
ModelEncodeDecoder is an interface for objects
that allow encoding models into slices of
bytes and decoding them back to models.
*/
type ModelEncodeDecoder interface {

	//Encode receives a *tree.Model
	//and returns a slice of bytes with the model
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.Model) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.Model decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.Model, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	mencdec ModelEncodeDecoder
}

/*
New builds a tree.Store backed by a redis DB. Models are stored
encoded with the given ModelEncodeDecoder under the key
"prefix:name". The store does not own the client: closing the
store leaves it open.
*/
func New(rc *redis.Client, prefix string, mencdec ModelEncodeDecoder) tree.Store {
	return &redisStore{rc, prefix, mencdec}
}

func (rs *redisStore) Save(ctx context.Context, name string, m *tree.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	data, err := rs.mencdec.Encode(m)
	if err != nil {
		return fmt.Errorf("storing model %q: encoding model: %v", key, err)
	}
	_, err = rs.rc.Set(key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing model %q in redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Load(ctx context.Context, name string) (*tree.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := rs.keyFor(name)
	data, err := rs.rc.Get(key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("retrieving model %q: %w", key, tree.ErrModelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: %v", key, err)
	}
	m, err := rs.mencdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving model %q: decoding %q: %v", key, data, err)
	}
	return m, nil
}

func (rs *redisStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := rs.keyFor(name)
	_, err := rs.rc.Del(key).Result()
	if err != nil {
		return fmt.Errorf("deleting model %q from redis: %v", key, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return nil
}

func (rs *redisStore) keyFor(name string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, name)
}
