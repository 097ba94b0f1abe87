package server

import (
	"git.appkode.ru/pub/go/failure"

	"scorecard/internal/domain"
	"scorecard/pkg/errcodes"
)

// asFailure lifts a domain AppError into a failure kind so reply.Error can
// pick the right HTTP status.
func asFailure(err error) error {
	code, ok := domain.GetCode(err)
	if !ok {
		return err
	}

	switch code {
	case errcodes.NotFound, errcodes.DatasetNotFound, errcodes.RunNotFound:
		return failure.NewNotFoundErrorFromError(err, failure.WithCode(code))

	case errcodes.ValidationError, errcodes.EmptyDataset, errcodes.MissingColumn,
		errcodes.InvalidPD, errcodes.InvalidScoreRequest, errcodes.InvalidThresholds,
		errcodes.ModelNotLoaded, errcodes.UnknownFeature, errcodes.RunStoreDisabled:
		return failure.NewInvalidArgumentErrorFromError(err, failure.WithCode(code))

	default:
		return err
	}
}
