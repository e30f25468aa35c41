package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/json"
	"github.com/pbanos/sapling/tree/redisstore"
	"gopkg.in/redis.v5"
)

// redisModelPrefix marks model locations naming a model on the
// configured Redis store instead of a JSON file
const redisModelPrefix = "redis:"

// modelStore returns the Redis model store along with its client, which
// the caller must close.
func (rcc *rootCmdConfig) modelStore(features feature.Schema) (tree.Store, *redis.Client) {
	addr := rcc.v.GetString(redisAddrKey)
	rcc.Logf("Using model store at Redis %s", addr)
	rc := redis.NewClient(&redis.Options{Addr: addr})
	return redisstore.New(rc, rcc.v.GetString(redisKeyPrefixKey), json.NewModelEncodeDecoder(features)), rc
}

/*
loadModel reads the model at location: a "redis:NAME" reference to a model
on the Redis store, or the path to a JSON file.
*/
func (rcc *rootCmdConfig) loadModel(location string, features feature.Schema) (*tree.Model, error) {
	if name, ok := redisModelName(location); ok {
		store, rc := rcc.modelStore(features)
		defer rc.Close()
		defer store.Close(rcc.Context())
		m, err := store.Load(rcc.Context(), name)
		if err != nil {
			return nil, fmt.Errorf("loading model %s: %w", name, err)
		}
		return m, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading model in JSON from %s: %v", location, err)
	}
	defer f.Close()
	m, err := json.ReadJSONModel(f, features)
	if err != nil {
		return nil, fmt.Errorf("parsing model in JSON from %s: %v", location, err)
	}
	return m, nil
}

/*
saveModel writes the model to location: a "redis:NAME" reference to a
model on the Redis store, the path to a JSON file or, if "", STDOUT.
*/
func (rcc *rootCmdConfig) saveModel(location string, m *tree.Model, features feature.Schema) error {
	if name, ok := redisModelName(location); ok {
		store, rc := rcc.modelStore(features)
		defer rc.Close()
		defer store.Close(rcc.Context())
		return store.Save(rcc.Context(), name, m)
	}
	f := os.Stdout
	if location != "" {
		var err error
		f, err = os.Create(location)
		if err != nil {
			return err
		}
		defer f.Close()
	}
	return json.WriteJSONModel(f, m)
}

func redisModelName(location string) (string, bool) {
	if !strings.HasPrefix(location, redisModelPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(location, redisModelPrefix)
	return name, name != ""
}
