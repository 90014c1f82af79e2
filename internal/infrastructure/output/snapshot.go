package output

import "github.com/reglet-dev/batchqc/internal/application/dto"

// snapshotDocument is the serialized shape of one record-table snapshot.
type snapshotDocument struct {
	Label   string  `json:"label" yaml:"label"`
	Records int     `json:"records" yaml:"records"`
	Rows    [][]any `json:"rows" yaml:"rows"`
}

func snapshotDocuments(snapshots []dto.Snapshot) []snapshotDocument {
	docs := make([]snapshotDocument, 0, len(snapshots))
	for _, snap := range snapshots {
		rows := snap.Table
		if rows == nil {
			rows = [][]any{}
		}
		docs = append(docs, snapshotDocument{
			Label:   snap.Label,
			Records: len(rows),
			Rows:    rows,
		})
	}
	return docs
}
