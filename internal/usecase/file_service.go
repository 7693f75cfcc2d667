package usecase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/teamflow/internal/domain/record"
	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
	idgen "github.com/riskibarqy/teamflow/internal/platform/id"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

type CreateFileInput struct {
	Name       string
	Type       string
	URL        string
	UploadedBy string
	Category   teamfile.Category
}

// ShareLink is the public handle of a shared file.
type ShareLink struct {
	ShareID  string
	ShareURL string
}

type FileService struct {
	files        teamfile.Repository
	idGen        idgen.Generator
	clock        clockwork.Clock
	shareBaseURL string
	logger       *logging.Logger
}

func NewFileService(
	files teamfile.Repository,
	idGen idgen.Generator,
	clock clockwork.Clock,
	shareBaseURL string,
	logger *logging.Logger,
) *FileService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FileService{
		files:        files,
		idGen:        idGen,
		clock:        clock,
		shareBaseURL: shareBaseURL,
		logger:       logger,
	}
}

// List returns matching files, newest upload first.
func (s *FileService) List(ctx context.Context, filter teamfile.Filter) ([]teamfile.File, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.List")
	defer span.End()

	items, err := s.files.Read(ctx)
	if err != nil {
		return nil, storeError("read team files", err)
	}
	return teamfile.SortNewestFirst(record.Filter(items, filter.Match)), nil
}

func (s *FileService) ListByCategory(ctx context.Context, category teamfile.Category) ([]teamfile.File, error) {
	return s.List(ctx, teamfile.Filter{Category: category})
}

func (s *FileService) GetByID(ctx context.Context, fileID string) (teamfile.File, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.GetByID")
	defer span.End()

	fileID, err := requireID("file id", fileID)
	if err != nil {
		return teamfile.File{}, false, err
	}

	items, err := s.files.Read(ctx)
	if err != nil {
		return teamfile.File{}, false, storeError("read team files", err)
	}
	item, ok := record.Find(items, byFileID(fileID))
	return item, ok, nil
}

// Create stores file metadata. Sharing starts disabled.
func (s *FileService) Create(ctx context.Context, input CreateFileInput) (teamfile.File, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return teamfile.File{}, fmt.Errorf("generate file id: %w", err)
	}

	created := teamfile.File{
		ID:         id,
		Name:       input.Name,
		Type:       input.Type,
		URL:        input.URL,
		UploadedBy: input.UploadedBy,
		UploadedAt: s.clock.Now().UTC(),
		Category:   input.Category,
	}

	if err := s.files.Write(ctx, func(current []teamfile.File) []teamfile.File {
		return append(current, created)
	}); err != nil {
		return teamfile.File{}, storeError("write team files", err)
	}

	s.logger.InfoContext(ctx, "file uploaded",
		"file_id", created.ID,
		"category", created.Category,
	)
	return created, nil
}

// Update renames or recategorises a file.
func (s *FileService) Update(ctx context.Context, fileID string, u teamfile.Update) (teamfile.File, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.Update")
	defer span.End()

	fileID, err := requireID("file id", fileID)
	if err != nil {
		return teamfile.File{}, false, err
	}
	return s.replace(ctx, fileID, func(f teamfile.File) teamfile.File { return f.ApplyUpdate(u) })
}

func (s *FileService) Delete(ctx context.Context, fileID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.Delete")
	defer span.End()

	fileID, err := requireID("file id", fileID)
	if err != nil {
		return false, err
	}

	var removed bool
	if err := s.files.Write(ctx, func(current []teamfile.File) []teamfile.File {
		var next []teamfile.File
		next, removed = record.RemoveAll(current, byFileID(fileID))
		return next
	}); err != nil {
		return false, storeError("write team files", err)
	}
	return removed, nil
}

// EnableSharing turns on public access. A file keeps the share id it was
// first given, so links handed out earlier resolve again once re-enabled.
func (s *FileService) EnableSharing(ctx context.Context, fileID string) (ShareLink, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.EnableSharing")
	defer span.End()

	fileID, err := requireID("file id", fileID)
	if err != nil {
		return ShareLink{}, false, err
	}

	candidate, err := s.idGen.NewID()
	if err != nil {
		return ShareLink{}, false, fmt.Errorf("generate share id: %w", err)
	}
	now := s.clock.Now().UTC()

	shared, ok, err := s.replace(ctx, fileID, func(f teamfile.File) teamfile.File {
		return f.EnableSharing(candidate, now)
	})
	if err != nil || !ok {
		return ShareLink{}, ok, err
	}

	link := ShareLink{
		ShareID:  shared.ShareID,
		ShareURL: BuildShareURL(s.shareBaseURL, shared.ShareID),
	}
	s.logger.InfoContext(ctx, "file sharing enabled", "file_id", fileID, "share_id", link.ShareID)
	return link, true, nil
}

// DisableSharing revokes public access but keeps the share id.
func (s *FileService) DisableSharing(ctx context.Context, fileID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.DisableSharing")
	defer span.End()

	fileID, err := requireID("file id", fileID)
	if err != nil {
		return false, err
	}

	_, ok, err := s.replace(ctx, fileID, teamfile.File.DisableSharing)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.InfoContext(ctx, "file sharing disabled", "file_id", fileID)
	}
	return ok, nil
}

// IsShareEnabled reports false for unknown files.
func (s *FileService) IsShareEnabled(ctx context.Context, fileID string) (bool, error) {
	item, ok, err := s.GetByID(ctx, fileID)
	if err != nil {
		return false, err
	}
	return ok && item.ShareEnabled, nil
}

// ResolveByShareID returns the file only while sharing is enabled. Disabled
// and unknown share ids are indistinguishable.
func (s *FileService) ResolveByShareID(ctx context.Context, shareID string) (teamfile.File, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FileService.ResolveByShareID")
	defer span.End()

	shareID, err := requireID("share id", shareID)
	if err != nil {
		return teamfile.File{}, false, err
	}

	items, err := s.files.Read(ctx)
	if err != nil {
		return teamfile.File{}, false, storeError("read team files", err)
	}
	item, ok := record.Find(items, func(f teamfile.File) bool { return f.PubliclyResolvable(shareID) })
	return item, ok, nil
}

func (s *FileService) replace(ctx context.Context, fileID string, fn func(teamfile.File) teamfile.File) (teamfile.File, bool, error) {
	var (
		updated teamfile.File
		found   bool
	)
	if err := s.files.Write(ctx, func(current []teamfile.File) []teamfile.File {
		var next []teamfile.File
		next, updated, found = record.ReplaceFirst(current, byFileID(fileID), fn)
		return next
	}); err != nil {
		return teamfile.File{}, false, storeError("write team files", err)
	}
	if !found {
		return teamfile.File{}, false, nil
	}
	return updated.Clone(), true, nil
}

// BuildShareURL appends share=<shareID> to base, keeping any query it has.
func BuildShareURL(base, shareID string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base + "?share=" + url.QueryEscape(shareID)
	}
	query := parsed.Query()
	query.Set("share", shareID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func byFileID(id string) func(teamfile.File) bool {
	return func(f teamfile.File) bool { return f.ID == id }
}
