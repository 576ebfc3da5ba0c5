package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/brightcredit/credit-engine/pkg/errors"
)

// Transaction types in the external feed.
const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

// Reader exposes the external transaction feed used by credit scoring.
type Reader interface {
	// NetBalance returns the sum of CREDIT amounts minus the sum of DEBIT
	// amounts across every feed record matching the aadhaar id. A user with
	// no records has a zero balance.
	NetBalance(ctx context.Context, aadharID string) (decimal.Decimal, error)
}

// CSVReader reads the feed from a CSV file with an AADHAR_ID,
// Transaction_type and Amount column (extra columns are ignored).
type CSVReader struct {
	path string
}

func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

func (r *CSVReader) NetBalance(ctx context.Context, aadharID string) (decimal.Decimal, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", apperrors.ErrFeedUnavailable, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: reading header: %v", apperrors.ErrFeedMalformed, err)
	}

	idCol, typeCol, amountCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "AADHAR_ID":
			idCol = i
		case "Transaction_type":
			typeCol = i
		case "Amount":
			amountCol = i
		}
	}
	if idCol < 0 || typeCol < 0 || amountCol < 0 {
		return decimal.Zero, fmt.Errorf("%w: missing required columns in %v", apperrors.ErrFeedMalformed, header)
	}

	balance := decimal.Zero
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return decimal.Zero, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: line %d: %v", apperrors.ErrFeedMalformed, line, err)
		}

		if len(record) <= idCol || len(record) <= typeCol || len(record) <= amountCol {
			return decimal.Zero, fmt.Errorf("%w: line %d: short record", apperrors.ErrFeedMalformed, line)
		}

		if strings.TrimSpace(record[idCol]) != aadharID {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[amountCol]))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: line %d: bad amount %q", apperrors.ErrFeedMalformed, line, record[amountCol])
		}

		switch strings.TrimSpace(record[typeCol]) {
		case TypeCredit:
			balance = balance.Add(amount)
		case TypeDebit:
			balance = balance.Sub(amount)
		default:
			return decimal.Zero, fmt.Errorf("%w: line %d: unknown transaction type %q", apperrors.ErrFeedMalformed, line, record[typeCol])
		}
	}

	return balance, nil
}
