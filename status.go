package saarthi

import "time"

// Status describes what the engine has loaded.
type Status struct {
	Records           int            `json:"records"`
	RecordsPerSource  map[string]int `json:"records_per_source"`
	IndexReady        bool           `json:"index_ready"`
	IndexedRecords    int            `json:"indexed_records"`
	IndexModel        string         `json:"index_model,omitempty"`
	EmbedderModel     string         `json:"embedder_model"`
	ModelMismatch     bool           `json:"model_mismatch"`
	Dimensions        int            `json:"dimensions,omitempty"`
	BuildID           string         `json:"build_id,omitempty"`
	Generation        uint64         `json:"generation,omitempty"`
	BuiltAt           time.Time      `json:"built_at"`
	GenerationEnabled bool           `json:"generation_enabled"`
}

// Status reports the loaded corpus and index state.
func (e *Engine) Status() Status {
	corpus := e.store.Corpus()
	s := Status{
		Records:           corpus.Len(),
		RecordsPerSource:  corpus.CountsBySource(),
		EmbedderModel:     e.index.EmbedderModel(),
		GenerationEnabled: e.provider.Generator() != nil,
	}
	if meta, ok := e.index.Meta(); ok {
		s.IndexReady = true
		s.IndexedRecords = meta.Count
		s.IndexModel = meta.Model
		s.ModelMismatch = meta.Model != s.EmbedderModel
		s.Dimensions = meta.Dimensions
		s.BuildID = meta.BuildID
		s.Generation = meta.Generation
		s.BuiltAt = meta.BuiltAt
	}
	return s
}
