package source

import (
	"context"
	"os"

	"github.com/midiaops/painel/internal/errors"
	"github.com/midiaops/painel/internal/logging"
)

// FileSource reads the job workbook from a local path.
type FileSource struct {
	path  string
	sheet string
	log   *logging.Logger
}

// NewFileSource creates a source reading the workbook at path, scoped to the
// named sheet (empty = first sheet).
func NewFileSource(path, sheet string, log *logging.Logger) *FileSource {
	if log == nil {
		log = logging.NopLogger()
	}
	return &FileSource{
		path:  path,
		sheet: sheet,
		log:   log.WithComponent("source").WithSource("file", path),
	}
}

// Fetch reads and decodes the workbook.
func (s *FileSource) Fetch(ctx context.Context) (*RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewSourceError("fetch canceled", errors.ErrCanceled)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.NewSourceError("workbook file missing", errors.ErrDocumentNotFound).
				WithDocumentID(s.path)
		case os.IsPermission(err):
			return nil, errors.NewSourceError("workbook file not readable", errors.ErrPermissionDenied).
				WithDocumentID(s.path)
		default:
			return nil, errors.NewSourceError("failed to read workbook file", err).
				WithDocumentID(s.path)
		}
	}

	table, err := decodeBytes(data, s.sheet)
	if err != nil {
		return nil, err
	}

	for _, w := range table.Warnings {
		s.log.Warn(w)
	}
	s.log.Debug("workbook loaded", "sheet", table.Sheet, "rows", len(table.Rows))
	return table, nil
}
