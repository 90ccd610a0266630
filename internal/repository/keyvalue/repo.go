// Package keyvalue stores engines and documents in Redis or Valkey hashes.
//
// Layout per engine:
//
//	<prefix>engine:<name>  hash  name, language, created_at, seq
//	<prefix>docs:<name>    hash  document id -> {"seq":N,"fields":{...}}
//
// seq orders documents by first insertion.
package keyvalue

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/kailas-cloud/swiftype/internal/domain"
	"github.com/kailas-cloud/swiftype/internal/domain/document"
	"github.com/kailas-cloud/swiftype/internal/domain/engine"
)

// DefaultPrefix namespaces every key written by the repository.
const DefaultPrefix = "swiftype:"

// store is the consumer interface for engines and documents (ISP).
//
//nolint:interfacebloat // repository covers engines and documents
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HMGet(ctx context.Context, key string, fields ...string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	HIncrBy(ctx context.Context, key, field string, n int64) (int64, error)
	HLen(ctx context.Context, key string) (int64, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the engine, document and search repositories.
type Repo struct {
	store  store
	prefix string
}

// New creates a repository over a hash store.
func New(s store) *Repo {
	return &Repo{store: s, prefix: DefaultPrefix}
}

// WithPrefix overrides the key prefix.
func (r *Repo) WithPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

func (r *Repo) engineKey(name string) string { return r.prefix + "engine:" + name }
func (r *Repo) docsKey(name string) string   { return r.prefix + "docs:" + name }

// CreateEngine claims the engine name with HSETNX, then writes metadata.
func (r *Repo) CreateEngine(ctx context.Context, e engine.Engine) error {
	key := r.engineKey(e.Name())
	created, err := r.store.HSetNX(ctx, key, fieldName, e.Name())
	if err != nil {
		return fmt.Errorf("hsetnx %s: %w", key, err)
	}
	if !created {
		return fmt.Errorf("engine %q: %w", e.Name(), domain.ErrEngineExists)
	}

	// Drop documents left behind by writes racing an earlier delete.
	if err := r.store.Del(ctx, r.docsKey(e.Name())); err != nil {
		return fmt.Errorf("del %s: %w", r.docsKey(e.Name()), err)
	}
	if err := r.store.HSet(ctx, key, engineToHash(e)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// GetEngine returns an engine by name.
func (r *Repo) GetEngine(ctx context.Context, name string) (engine.Engine, error) {
	key := r.engineKey(name)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return engine.Engine{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return engine.Engine{}, notFound(name)
	}
	return hashToEngine(m)
}

// ListEngines returns all engines sorted by name.
func (r *Repo) ListEngines(ctx context.Context) ([]engine.Engine, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"engine:*")
	if err != nil {
		return nil, fmt.Errorf("scan engines: %w", err)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load engines: %w", err)
	}

	out := make([]engine.Engine, 0, len(hashes))
	for _, m := range hashes {
		// Deleted between SCAN and HGETALL.
		if len(m) == 0 {
			continue
		}
		e, err := hashToEngine(m)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// DeleteEngine removes an engine and its documents.
func (r *Repo) DeleteEngine(ctx context.Context, name string) error {
	if err := r.requireEngine(ctx, name); err != nil {
		return err
	}
	if err := r.store.Del(ctx, r.engineKey(name), r.docsKey(name)); err != nil {
		return fmt.Errorf("delete engine %q: %w", name, err)
	}
	return nil
}

// CountDocuments returns the number of documents in an engine.
func (r *Repo) CountDocuments(ctx context.Context, name string) (int, error) {
	if err := r.requireEngine(ctx, name); err != nil {
		return 0, err
	}
	n, err := r.store.HLen(ctx, r.docsKey(name))
	if err != nil {
		return 0, fmt.Errorf("hlen %s: %w", r.docsKey(name), err)
	}
	return int(n), nil
}

// PutDocuments inserts or replaces documents. Replaced documents keep their position.
func (r *Repo) PutDocuments(ctx context.Context, name string, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := r.requireEngine(ctx, name); err != nil {
		return err
	}

	key := r.docsKey(name)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID()
	}
	existing, err := r.store.HMGet(ctx, key, ids...)
	if err != nil {
		return fmt.Errorf("hmget %s: %w", key, err)
	}

	seqs := make(map[string]int64, len(docs))
	var fresh []string
	for _, d := range docs {
		if _, seen := seqs[d.ID()]; seen {
			continue
		}
		raw, ok := existing[d.ID()]
		if !ok {
			seqs[d.ID()] = 0
			fresh = append(fresh, d.ID())
			continue
		}
		row, _, err := decodeDoc(d.ID(), raw)
		if err != nil {
			return err
		}
		seqs[d.ID()] = row.Seq
	}

	if len(fresh) > 0 {
		last, err := r.store.HIncrBy(ctx, r.engineKey(name), fieldSeq, int64(len(fresh)))
		if err != nil {
			return fmt.Errorf("reserve sequence for %q: %w", name, err)
		}
		first := last - int64(len(fresh)) + 1
		for i, id := range fresh {
			seqs[id] = first + int64(i)
		}
	}

	fields := make(map[string]string, len(docs))
	for _, d := range docs {
		raw, err := encodeDoc(seqs[d.ID()], d)
		if err != nil {
			return err
		}
		fields[d.ID()] = raw
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// GetDocuments returns documents aligned with ids; missing ids yield nil.
func (r *Repo) GetDocuments(ctx context.Context, name string, ids []string) ([]*document.Document, error) {
	if err := r.requireEngine(ctx, name); err != nil {
		return nil, err
	}
	key := r.docsKey(name)
	found, err := r.store.HMGet(ctx, key, ids...)
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", key, err)
	}

	out := make([]*document.Document, len(ids))
	for i, id := range ids {
		raw, ok := found[id]
		if !ok {
			continue
		}
		_, d, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		out[i] = &d
	}
	return out, nil
}

// ListDocuments returns all documents in insertion order.
func (r *Repo) ListDocuments(ctx context.Context, name string) ([]document.Document, error) {
	if err := r.requireEngine(ctx, name); err != nil {
		return nil, err
	}
	key := r.docsKey(name)
	all, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}

	type entry struct {
		seq int64
		doc document.Document
	}
	entries := make([]entry, 0, len(all))
	for id, raw := range all {
		row, d, err := decodeDoc(id, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{seq: row.Seq, doc: d})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].seq != entries[j].seq {
			return entries[i].seq < entries[j].seq
		}
		return strings.Compare(entries[i].doc.ID(), entries[j].doc.ID()) < 0
	})

	out := make([]document.Document, len(entries))
	for i, e := range entries {
		out[i] = e.doc
	}
	return out, nil
}

// DeleteDocuments removes documents by id and reports which ones existed.
func (r *Repo) DeleteDocuments(ctx context.Context, name string, ids []string) ([]bool, error) {
	if err := r.requireEngine(ctx, name); err != nil {
		return nil, err
	}
	key := r.docsKey(name)
	found, err := r.store.HMGet(ctx, key, ids...)
	if err != nil {
		return nil, fmt.Errorf("hmget %s: %w", key, err)
	}

	deleted := make([]bool, len(ids))
	var present []string
	for i, id := range ids {
		if _, ok := found[id]; !ok {
			continue
		}
		// Repeated ids are reported once.
		if !slices.Contains(present, id) {
			deleted[i] = true
			present = append(present, id)
		}
	}
	if err := r.store.HDel(ctx, key, present...); err != nil {
		return nil, fmt.Errorf("hdel %s: %w", key, err)
	}
	return deleted, nil
}

func (r *Repo) requireEngine(ctx context.Context, name string) error {
	ok, err := r.store.Exists(ctx, r.engineKey(name))
	if err != nil {
		return fmt.Errorf("exists %s: %w", r.engineKey(name), err)
	}
	if !ok {
		return notFound(name)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("engine %q: %w", name, domain.ErrEngineNotFound)
}
