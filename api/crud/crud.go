// Package crud implements the shared REST plumbing for collection
// resources. Each resource hands a Descriptor to the handler constructors;
// the descriptor's static allow-lists and hooks are the only way resource
// behavior varies, so every endpoint answers with the same envelope, the
// same error mapping and the same query grammar.
package crud

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/venkateshdh/gotours-backend/api/responses"
	"github.com/venkateshdh/gotours-backend/api/validators"
	"github.com/venkateshdh/gotours-backend/pkg/db"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/listing"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
)

// Descriptor wires one model into the generic handlers.
type Descriptor[T any] struct {
	// Singular names the resource in error messages ("tour", "user").
	Singular string

	// Resource declares the listing allow-lists.
	Resource listing.Resource

	// Preloads are association names loaded on reads. DetailPreloads are
	// loaded on single-record reads only, on top of Preloads.
	Preloads       []string
	DetailPreloads []string

	// NestedParam/NestedColumn scope collection reads to a parent
	// resource when the route carries the parent id, e.g. tourId ->
	// tour_id for /tours/{tourId}/reviews.
	NestedParam  string
	NestedColumn string

	// Scope narrows every read; nil means no extra predicate. Used for
	// things like hiding secret tours from public listings.
	Scope func(tx *gorm.DB, r *http.Request) *gorm.DB

	// NewFromRequest decodes and validates a create payload into a model.
	NewFromRequest func(r *http.Request) (*T, error)

	// UpdatesFromRequest decodes and validates an update payload into a
	// column->value map. Only allow-listed columns may appear.
	UpdatesFromRequest func(r *http.Request) (map[string]any, error)
}

func (d Descriptor[T]) baseQuery(r *http.Request, conn *gorm.DB) *gorm.DB {
	tx := conn.WithContext(r.Context()).Model(new(T))
	if d.NestedParam != "" && d.NestedColumn != "" {
		if parent := chi.URLParam(r, d.NestedParam); parent != "" {
			tx = tx.Where(d.NestedColumn+" = ?", parent)
		}
	}
	if d.Scope != nil {
		tx = d.Scope(tx, r)
	}
	return tx
}

func (d Descriptor[T]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, preload := range d.Preloads {
		tx = tx.Preload(preload)
	}
	return tx
}

func (d Descriptor[T]) withDetailPreloads(tx *gorm.DB) *gorm.DB {
	tx = d.withPreloads(tx)
	for _, preload := range d.DetailPreloads {
		tx = tx.Preload(preload)
	}
	return tx
}

// GetAll lists the collection, honoring the filter/sort/fields/pagination
// grammar.
func (d Descriptor[T]) GetAll(conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx := d.baseQuery(r, conn)
		tx, _ = listing.Apply(tx, r.URL.Query(), d.Resource)
		tx = d.withPreloads(tx)

		var items []T
		if err := tx.Find(&items).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}
		responses.WriteList(w, len(items), items)
	}
}

// GetOne fetches a single record by its id path parameter.
func (d Descriptor[T]) GetOne(conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tx := d.withDetailPreloads(d.baseQuery(r, conn))

		var item T
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// CreateOne persists a new record decoded by the descriptor.
func (d Descriptor[T]) CreateOne(conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.NewFromRequest == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "create not supported"))
			return
		}

		item, err := d.NewFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := conn.WithContext(r.Context()).Create(item).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// UpdateOne applies a partial update to the record behind the id parameter
// and answers with the fresh row.
func (d Descriptor[T]) UpdateOne(conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.UpdatesFromRequest == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "update not supported"))
			return
		}

		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates, err := d.UpdatesFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(updates) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no updatable fields provided"))
			return
		}

		var item T
		tx := d.baseQuery(r, conn)
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}

		if err := conn.WithContext(r.Context()).Model(&item).Updates(updates).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}

		fresh := new(T)
		if err := d.withDetailPreloads(conn.WithContext(r.Context()).Model(new(T))).First(fresh, "id = ?", id).Error; err != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(err, d.Singular))
			return
		}
		responses.WriteSuccess(w, fresh)
	}
}

// DeleteOne removes the record behind the id parameter, answering 204.
func (d Descriptor[T]) DeleteOne(conn *gorm.DB, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := conn.WithContext(r.Context()).Delete(new(T), "id = ?", id)
		if result.Error != nil {
			responses.WriteError(r.Context(), logg, w, db.Translate(result.Error, d.Singular))
			return
		}
		if result.RowsAffected == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no "+d.Singular+" found with that ID"))
			return
		}
		responses.WriteNoContent(w)
	}
}
