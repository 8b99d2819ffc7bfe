package lumina

import (
	"errors"
	"fmt"
)

// AdvisoryMessage is shown to users when no spreadsheet could be produced.
const AdvisoryMessage = "We couldn't generate the spreadsheet. Please try again or contact support."

// ErrBusy indicates a spreadsheet for the same message is still generating.
var ErrBusy = errors.New("spreadsheet generation already in progress")

// ErrNoData indicates the message carries no structured product data.
var ErrNoData = errors.New("message has no product data")

// DownloadError represents a failed spreadsheet download.
type DownloadError struct {
	MessageID string
	Filename  string
	Err       error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download error for message %q (%s): %v", e.MessageID, e.Filename, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a new DownloadError.
func NewDownloadError(messageID, filename string, err error) *DownloadError {
	return &DownloadError{
		MessageID: messageID,
		Filename:  filename,
		Err:       err,
	}
}
