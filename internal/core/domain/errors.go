package domain

import "errors"

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrInvalidChunk is an error thrown when a chunk targets an unknown session or an out of range index
var ErrInvalidChunk = errors.New("invalid chunk")

// ErrRateLimited is an error thrown when an author exceeded the submission quota
var ErrRateLimited = errors.New("rate limited")

// ErrUpstreamStorage is an error thrown when the persistence layer is unavailable
var ErrUpstreamStorage = errors.New("upstream storage failure")

// ErrProcessingStage is an error thrown when a pipeline stage fails
var ErrProcessingStage = errors.New("processing stage failure")

// ErrSessionNotFound is an error thrown when session is not found
var ErrSessionNotFound = errors.New("session not found")

// ErrSubmissionNotFound is an error thrown when submission is not found
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrAttachmentNotFound is an error thrown when attachment is not found
var ErrAttachmentNotFound = errors.New("attachment not found")

// ErrMetadataNotFound is an error thrown when a metadata key is not set
var ErrMetadataNotFound = errors.New("metadata not found")

// ErrWrongRecordKind is an error thrown when an id resolves to a record that is not a recording
var ErrWrongRecordKind = errors.New("wrong record kind")

// ErrInvalidSubmission is an error thrown when submission attributes are invalid
var ErrInvalidSubmission = errors.New("invalid submission")

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrContentTypeMismatch is an error thrown when content type mismatch
var ErrContentTypeMismatch = errors.New("content type mismatch")
