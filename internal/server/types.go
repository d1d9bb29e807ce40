package server

import (
	"garage/internal/inventory"
	"garage/internal/progress"
	"garage/internal/tabular"
)

// Model is the transport representation of one store row.
type Model struct {
	ToyNumber string `json:"toyNumber"`
	Name      string `json:"name"`
	Year      string `json:"year"`
	Series    string `json:"series"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`
}

// CollectionResponse lists owned models plus their total quantity.
type CollectionResponse struct {
	Models []Model `json:"models"`
	Total  int     `json:"total"`
}

// ModelsResponse wraps a plain list of models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// BulkEntry reports the outcome of one bulk entry.
type BulkEntry struct {
	ToyNumber string `json:"toyNumber"`
	Requested int    `json:"requested"`
	Added     *Model `json:"added,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BulkResponse reports per-entry outcomes of a bulk add.
type BulkResponse struct {
	Entries []BulkEntry `json:"entries"`
	Added   int         `json:"addedCount"`
	Failed  int         `json:"failedCount"`
}

// ProgressResponse lists completion groups in catalog order.
type ProgressResponse struct {
	Groups []progress.Group `json:"groups"`
}

// AdjustResponse carries the post-adjustment quantity.
type AdjustResponse struct {
	ToyNumber   string `json:"toyNumber"`
	NewQuantity int    `json:"newQuantity"`
}

// DeleteResponse reports whether anything was removed.
type DeleteResponse struct {
	Removed bool `json:"removed"`
}

// CacheResponse mirrors inventory.CacheStatus for the admin surface.
type CacheResponse struct {
	Master     tabular.Status `json:"master"`
	Collection tabular.Status `json:"collection"`
}

type collectRequest struct {
	ToyNumber string `json:"toyNumber"`
	Quantity  int    `json:"quantity"`
}

type bulkRequest struct {
	Text string `json:"text"`
}

type adjustRequest struct {
	ToyNumber string `json:"toyNumber"`
	Delta     int    `json:"delta"`
}

type deleteRequest struct {
	ToyNumber string `json:"toyNumber"`
}

type reloadRequest struct {
	Store string `json:"store"`
}

func fromRecord(record tabular.Record) Model {
	return Model{
		ToyNumber: record.ToyNumber,
		Name:      record.Name,
		Year:      record.Year,
		Series:    record.Series,
		ImageURL:  record.ImageURL,
		Quantity:  record.Quantity,
	}
}

func fromRecords(records []tabular.Record) []Model {
	models := make([]Model, 0, len(records))
	for _, record := range records {
		models = append(models, fromRecord(record))
	}
	return models
}

func fromBulkResults(results []inventory.BulkEntryResult) BulkResponse {
	response := BulkResponse{Entries: make([]BulkEntry, 0, len(results))}
	for _, result := range results {
		entry := BulkEntry{ToyNumber: result.ToyNumber, Requested: result.Requested}
		if result.Err != nil {
			entry.Error = result.Err.Error()
			response.Failed++
		} else if result.Added != nil {
			model := fromRecord(*result.Added)
			entry.Added = &model
			response.Added++
		}
		response.Entries = append(response.Entries, entry)
	}
	return response
}
