package ingestion

import "context"

// AbortSession discards an in-flight chunked upload
func (s *ingestionService) AbortSession(ctx context.Context, sessionID string) error {
	return s.chunks.Abort(ctx, sessionID)
}
