package kb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"menurag/internal/domain"
)

// Artifact filenames inside a knowledge-base directory. The four data files
// must stay mutually consistent: same count, same id ordering.
const (
	embeddingsFile  = "embeddings.json"
	documentIDsFile = "document_ids.json"
	documentsFile   = "documents.json"
	metadataFile    = "document_metadata.json"
	modelInfoFile   = "model_info.json"
)

var (
	// ErrInconsistentArtifacts means the loaded index and document set
	// disagree in size or ordering. Fatal at startup.
	ErrInconsistentArtifacts = errors.New("knowledge base artifacts are inconsistent")

	// ErrDimensionMismatch means the configured embedder does not produce
	// vectors of the indexed dimension. Fatal at startup.
	ErrDimensionMismatch = errors.New("embedder dimension does not match index")
)

// ModelInfo records the embedder identity used at build time.
type ModelInfo struct {
	Name      string `json:"model_name"`
	Dimension int    `json:"dimension"`
}

// KnowledgeBase is the loaded, read-only index artifact set: document
// vectors aligned row-for-row with the document-id list, the full document
// records, and a metadata lookup by id. It is immutable after load and may
// be shared across sessions.
type KnowledgeBase struct {
	Vectors    [][]float64
	IDs        []string
	Documents  []domain.Document
	MetadataBy map[string]map[string]string
	Model      ModelInfo
}

// Save writes all artifacts to dir, creating it as needed.
func Save(dir string, docs []domain.Document, vectors [][]float64, model ModelInfo) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("%w: %d documents, %d vectors", ErrInconsistentArtifacts, len(docs), len(vectors))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ids := make([]string, len(docs))
	metadata := make(map[string]map[string]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		metadata[d.ID] = d.Metadata
	}
	files := map[string]any{
		embeddingsFile:  vectors,
		documentIDsFile: ids,
		documentsFile:   docs,
		metadataFile:    metadata,
		modelInfoFile:   model,
	}
	for name, v := range files {
		if err := writeJSON(filepath.Join(dir, name), v); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the artifact set from dir and verifies the load-time
// consistency invariant.
func Load(dir string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{}
	if err := readJSON(filepath.Join(dir, embeddingsFile), &kb.Vectors); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, documentIDsFile), &kb.IDs); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, documentsFile), &kb.Documents); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, metadataFile), &kb.MetadataBy); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, modelInfoFile), &kb.Model); err != nil {
		return nil, err
	}
	if err := kb.validate(); err != nil {
		return nil, err
	}
	return kb, nil
}

func (kb *KnowledgeBase) validate() error {
	n := len(kb.Documents)
	if len(kb.Vectors) != n || len(kb.IDs) != n {
		return fmt.Errorf("%w: %d documents, %d vectors, %d ids",
			ErrInconsistentArtifacts, n, len(kb.Vectors), len(kb.IDs))
	}
	for i, d := range kb.Documents {
		if d.ID != kb.IDs[i] {
			return fmt.Errorf("%w: row %d has id %q, id list says %q",
				ErrInconsistentArtifacts, i, d.ID, kb.IDs[i])
		}
		if _, ok := kb.MetadataBy[d.ID]; !ok {
			return fmt.Errorf("%w: no metadata for id %q", ErrInconsistentArtifacts, d.ID)
		}
	}
	if n > 0 {
		dim := len(kb.Vectors[0])
		for i, v := range kb.Vectors {
			if len(v) != dim {
				return fmt.Errorf("%w: vector %d has dimension %d, want %d",
					ErrInconsistentArtifacts, i, len(v), dim)
			}
		}
		if kb.Model.Dimension != 0 && kb.Model.Dimension != dim {
			return fmt.Errorf("%w: model info says %d, vectors are %d",
				ErrDimensionMismatch, kb.Model.Dimension, dim)
		}
	}
	return nil
}

// VerifyEmbedder checks that the embedder in use matches the one that
// built the index. A mismatch is a fatal configuration error.
func (kb *KnowledgeBase) VerifyEmbedder(e domain.Embedder) error {
	if e.Name() != kb.Model.Name {
		return fmt.Errorf("%w: index built with %q, configured embedder is %q",
			ErrDimensionMismatch, kb.Model.Name, e.Name())
	}
	if d := e.Dimension(); d != 0 && len(kb.Vectors) > 0 && d != len(kb.Vectors[0]) {
		return fmt.Errorf("%w: embedder produces %d, index holds %d",
			ErrDimensionMismatch, d, len(kb.Vectors[0]))
	}
	return nil
}

// Contents returns the flattened document texts in row order, used to
// prepare corpus-dependent embedders.
func (kb *KnowledgeBase) Contents() []string {
	out := make([]string, len(kb.Documents))
	for i, d := range kb.Documents {
		out[i] = d.Content
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}
