package projects

import (
	"context"

	"go.uber.org/zap"
)

const (
	mergeCompletedMessageConstant     = "merged project exports"
	directoryRecordsLogFieldConstant  = "directory_records"
	partnerRecordsLogFieldConstant    = "partner_records"
	mergedRecordsLogFieldConstant     = "merged_records"
	outputPathLogFieldConstant        = "path"
	directoryReadStageMessageConstant = "reading directory export"
	partnerReadStageMessageConstant   = "reading partner export"
)

// MergeOptions names the files used by a single merge run.
type MergeOptions struct {
	DirectoryInputPath string
	PartnerInputPath   string
	OutputPath         string
}

// MergeResult reports how many records each stage produced.
type MergeResult struct {
	DirectoryRecords int
	PartnerRecords   int
	MergedRecords    int
}

// Service merges the directory and partner exports into the canonical project list.
type Service struct {
	logger *zap.Logger
}

// NewService constructs a merge service.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Run reads both exports, merges them with directory priority, and writes the canonical list.
func (service *Service) Run(executionContext context.Context, options MergeOptions) (MergeResult, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return MergeResult{}, contextError
	}

	service.logger.Debug(directoryReadStageMessageConstant, zap.String(outputPathLogFieldConstant, options.DirectoryInputPath))
	directoryRecords, directoryError := ReadDirectoryExport(options.DirectoryInputPath)
	if directoryError != nil {
		return MergeResult{}, directoryError
	}

	service.logger.Debug(partnerReadStageMessageConstant, zap.String(outputPathLogFieldConstant, options.PartnerInputPath))
	partnerRecords, partnerError := ReadPartnerExport(options.PartnerInputPath)
	if partnerError != nil {
		return MergeResult{}, partnerError
	}

	mergedRecords := Merge(directoryRecords, partnerRecords)
	if writeError := WriteCanonical(options.OutputPath, mergedRecords); writeError != nil {
		return MergeResult{}, writeError
	}

	result := MergeResult{
		DirectoryRecords: len(directoryRecords),
		PartnerRecords:   len(partnerRecords),
		MergedRecords:    len(mergedRecords),
	}

	service.logger.Info(
		mergeCompletedMessageConstant,
		zap.Int(directoryRecordsLogFieldConstant, result.DirectoryRecords),
		zap.Int(partnerRecordsLogFieldConstant, result.PartnerRecords),
		zap.Int(mergedRecordsLogFieldConstant, result.MergedRecords),
		zap.String(outputPathLogFieldConstant, options.OutputPath),
	)

	return result, nil
}
