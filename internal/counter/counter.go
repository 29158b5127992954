// Package counter implements the Counter gRPC service: it validates a
// (word, file_name) query, consults the cache tier, and falls back to
// scanning the file on a miss.
package counter

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wordgate/internal/cache"
	"wordgate/internal/logging"
	"wordgate/internal/scanner"
	"wordgate/internal/wordcountpb"
)

// Service implements wordcountpb.CounterServer over a cache tier and a
// text root directory.
type Service struct {
	wordcountpb.UnimplementedCounterServer

	textRoot string
	cache    *cache.Tier
	logger   logging.Logger
}

func New(textRoot string, tier *cache.Tier, logger logging.Logger) *Service {
	return &Service{textRoot: textRoot, cache: tier, logger: logger}
}

// Count implements wordcountpb.CounterServer. Validation failures are the
// only case returned as a gRPC error (FAILED_PRECONDITION); scan and cache
// failures are absorbed into the sentinel and reported as a successful RPC.
func (s *Service) Count(ctx context.Context, req *wordcountpb.WordCountRequest) (*wordcountpb.WordCountResponse, error) {
	path, err := s.checkParams(req)
	if err != nil {
		return nil, err
	}

	key := cache.Key(req.FileName, req.Word)

	value := s.cache.Get(ctx, key)
	if value < 0 {
		value, err = scanner.Count(ctx, req.Word, path)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("scan failed", "path", path, "word", req.Word, "err", err)
			}
			value = cache.Miss
		}
		if value != cache.Miss {
			s.cache.Set(ctx, key, value)
		}
	}

	return &wordcountpb.WordCountResponse{
		Count:         value,
		StatusCode:    0,
		StatusMessage: "ok",
		LogID:         "",
	}, nil
}

var errBadFileName = errors.New("counter: file_name has no usable stem")

func (s *Service) checkParams(req *wordcountpb.WordCountRequest) (string, error) {
	if req.Word == "" {
		return "", status.Error(codes.FailedPrecondition, "word must not be empty")
	}
	if req.FileName == "" {
		return "", status.Error(codes.FailedPrecondition, "file_name must not be empty")
	}
	if cache.Key(req.FileName, "") == ":" {
		return "", status.Error(codes.FailedPrecondition, errBadFileName.Error())
	}

	path := filepath.Join(s.textRoot, req.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", status.Errorf(codes.FailedPrecondition, "file_name does not resolve to an existing file: %v", err)
	}
	return path, nil
}
