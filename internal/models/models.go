// package models defines the data model for the release review service
package models

import "context"

// Record is implemented by every entity stored in a keyed collection.
type Record interface {
	Key() string // Key returns the value the record is addressed by (id or email)
}

// Repository defines collection-level data access for one entity type.
//
// Every mutating method is a single atomic read-modify-write of the whole collection.
type Repository[T Record] interface {
	List(ctx context.Context) ([]T, error)             // List returns every record in insertion order
	Get(ctx context.Context, key string) (T, error)    // Get returns the record with key or a not-found error
	Append(ctx context.Context, model T) error         // Append adds a record at the end of the collection
	Replace(ctx context.Context, model T) error        // Replace swaps the record sharing model's key
	RemoveByKey(ctx context.Context, key string) error // RemoveByKey deletes exactly one record
}
