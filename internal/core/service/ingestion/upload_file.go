package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"starmus/internal/core/domain"
	"strings"
)

const sniffLength = 512

// UploadFile accepts a whole file in one request, bypassing chunk reassembly
func (s *ingestionService) UploadFile(ctx context.Context, request domain.SubmissionRequest, body io.Reader, size int64) (*domain.UploadResult, error) {
	if err := validateRequest(&request); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidFileType)
	}
	if size > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrFileSizeTooBig, size, s.cfg.MaxFileSize)
	}

	reader := bufio.NewReaderSize(body, sniffLength)
	head, err := reader.Peek(sniffLength)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("%w: failed to read file header: %w", domain.ErrInvalidFileType, err)
	}
	if err := checkSniffedType(http.DetectContentType(head), request.MimeType); err != nil {
		return nil, err
	}

	request.SizeBytes = size
	submission, err := s.submit(ctx, request, reader, size)
	if err != nil {
		return nil, err
	}

	return &domain.UploadResult{
		State:        domain.UploadStateComplete,
		SubmissionID: &submission.ID,
		Received:     1,
		Total:        1,
	}, nil
}

// checkSniffedType rejects files whose content is clearly not audio.
// Many audio containers sniff as application/octet-stream, those are accepted on the declared type.
func checkSniffedType(sniffed string, declared string) error {
	sniffed = extractMimeType(sniffed)
	switch {
	case sniffed == "application/octet-stream",
		strings.HasPrefix(sniffed, "audio/"),
		sniffed == "application/ogg",
		sniffed == "video/webm",
		sniffed == "video/mp4":
		return nil
	default:
		return fmt.Errorf("%w: declared %s but content looks like %s", domain.ErrContentTypeMismatch, declared, sniffed)
	}
}
