package keyvalue

import (
	"context"
	"errors"
	"path"
	"strconv"
	"sync"
)

// fakeStore is an in-memory hash store for repository tests.
type fakeStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	failOn map[string]error // method name -> error
}

func newFakeStore() *fakeStore {
	return &fakeStore{hashes: make(map[string]map[string]string), failOn: make(map[string]error)}
}

func (f *fakeStore) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if err := f.fail("HSet"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (f *fakeStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	if err := f.fail("HSetNX"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	if _, exists := h[field]; exists {
		return false, nil
	}
	h[field] = value
	return true, nil
}

func (f *fakeStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if err := f.fail("HGetAll"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.hashes[key]))
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		m, err := f.HGetAll(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

func (f *fakeStore) HMGet(_ context.Context, key string, fields ...string) (map[string]string, error) {
	if err := f.fail("HMGet"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for _, field := range fields {
		if v, ok := f.hashes[key][field]; ok {
			out[field] = v
		}
	}
	return out, nil
}

func (f *fakeStore) HDel(_ context.Context, key string, fields ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, field := range fields {
		delete(f.hashes[key], field)
	}
	if len(f.hashes[key]) == 0 {
		delete(f.hashes, key)
	}
	return nil
}

func (f *fakeStore) HIncrBy(_ context.Context, key, field string, n int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[key]
	if !ok {
		h = make(map[string]string)
		f.hashes[key] = h
	}
	cur, _ := strconv.ParseInt(h[field], 10, 64)
	cur += n
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

func (f *fakeStore) HLen(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.hashes[key])), nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.hashes, k)
	}
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	if err := f.fail("Exists"); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.hashes[key]
	return ok, nil
}

func (f *fakeStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if err := f.fail("Scan"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.hashes {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, errors.New("bad pattern")
		}
		if ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
