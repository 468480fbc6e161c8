// Package firestore stores documents in Cloud Firestore, the managed real-time
// document database the storefront was first built on.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// NewClient opens a Firestore client. An empty credentials file falls back to
// application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

type Collection[T store.Document] struct {
	client *firestore.Client
	name   string
}

func NewCollection[T store.Document](client *firestore.Client, name string) *Collection[T] {
	return &Collection[T]{client: client, name: name}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := c.client.Collection(c.name).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}
	return decodeAll[T](c.name, docs)
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var v T
	snap, err := c.client.Collection(c.name).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return v, store.ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	if err := snap.DataTo(&v); err != nil {
		return v, fmt.Errorf("decode %s/%s: %w", c.name, id, err)
	}
	return v, nil
}

func (c *Collection[T]) Put(ctx context.Context, record T) error {
	id := record.DocumentID()
	if id == "" {
		return fmt.Errorf("put %s: document id is empty", c.name)
	}
	if _, err := c.client.Collection(c.name).Doc(id).Set(ctx, record); err != nil {
		return fmt.Errorf("put %s/%s: %w", c.name, id, err)
	}
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.client.Collection(c.name).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	return nil
}

// OnChange listens to collection snapshots until cancel is called.
func (c *Collection[T]) OnChange(fn func([]T)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		it := c.client.Collection(c.name).Snapshots(ctx)
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					utils.ErrorLogger.Printf("Snapshot listener for %s stopped: %v", c.name, err)
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				utils.ErrorLogger.Printf("Error reading %s snapshot: %v", c.name, err)
				continue
			}
			list, err := decodeAll[T](c.name, docs)
			if err != nil {
				utils.ErrorLogger.Printf("Error decoding %s snapshot: %v", c.name, err)
				continue
			}
			fn(list)
		}
	}()
	return cancel
}

func decodeAll[T store.Document](name string, docs []*firestore.DocumentSnapshot) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", name, doc.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

const kvCollection = "local_storage"

type kvDoc struct {
	Value string `firestore:"value"`
}

// KV keeps local-storage blobs as JSON strings in one collection.
type KV struct {
	client *firestore.Client
}

func NewKV(client *firestore.Client) *KV {
	return &KV{client: client}
}

func (k *KV) Load(ctx context.Context, key string, v any) error {
	snap, err := k.client.Collection(kvCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	var doc kvDoc
	if err := snap.DataTo(&doc); err != nil {
		return err
	}
	return json.Unmarshal([]byte(doc.Value), v)
}

func (k *KV) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = k.client.Collection(kvCollection).Doc(key).Set(ctx, kvDoc{Value: string(data)})
	return err
}

func (k *KV) Delete(ctx context.Context, key string) error {
	_, err := k.client.Collection(kvCollection).Doc(key).Delete(ctx)
	return err
}
