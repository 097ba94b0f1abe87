package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	Forbidden           failure.ErrorCode = "Forbidden"

	// Scoring pipeline.
	DatasetNotFound     failure.ErrorCode = "DatasetNotFound"     // dataset expired from the cache or never existed
	EmptyDataset        failure.ErrorCode = "EmptyDataset"        // upload contained a header but no rows
	MissingColumn       failure.ErrorCode = "MissingColumn"       // neither PD nor the full model feature set present
	InvalidPD           failure.ErrorCode = "InvalidPD"           // PD cell not parseable as a probability
	InvalidScoreRequest failure.ErrorCode = "InvalidScoreRequest" // single-prediction request without pd or features
	InvalidThresholds   failure.ErrorCode = "InvalidThresholds"   // category cutoffs out of order
	ModelNotLoaded      failure.ErrorCode = "ModelNotLoaded"      // feature scoring requested but no model configured
	UnknownFeature      failure.ErrorCode = "UnknownFeature"
	RunNotFound         failure.ErrorCode = "RunNotFound"
	RunStoreDisabled    failure.ErrorCode = "RunStoreDisabled" // run audit requested without a configured database
)
