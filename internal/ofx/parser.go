// Package ofx turns a raw OFX bank statement into import candidates. It is
// the statement-parser boundary: reconciliation only ever consumes the
// Candidate shape produced here, never the wire format. A malformed or
// unsupported file yields a single typed error and no candidates.
package ofx

import (
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	apperrors "centavo/internal/errors"
	"centavo/internal/models"
)

// Candidate is one statement line proposed for import. Amount is always
// positive (in cents); Type carries the direction.
type Candidate struct {
	Date                time.Time              `json:"date"`
	Amount              int64                  `json:"amount"`
	Type                models.TransactionType `json:"type"`
	Description         string                 `json:"description"`
	FITID               string                 `json:"fitid,omitempty"`
	SuggestedCategoryID *uint                  `json:"suggested_category_id,omitempty"`
}

// Parse reads an OFX document and returns its transactions as candidates.
// Both bank and credit card statements are supported. Errors are surfaced
// as STATEMENT_PARSE_FAILED; a partial candidate list is never returned.
func Parse(r io.Reader) ([]Candidate, error) {
	resp, err := ofxgo.ParseResponse(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStatementParse, err)
	}

	var candidates []Candidate
	seenStatement := false

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		seenStatement = true
		if stmt.BankTranList == nil {
			continue
		}
		candidates = append(candidates, fromTransactions(stmt.BankTranList.Transactions)...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		seenStatement = true
		if stmt.BankTranList == nil {
			continue
		}
		candidates = append(candidates, fromTransactions(stmt.BankTranList.Transactions)...)
	}

	if !seenStatement {
		return nil, apperrors.WithMessage(apperrors.ErrStatementParse, "File contains no bank or credit card statement")
	}
	return candidates, nil
}

func fromTransactions(txns []ofxgo.Transaction) []Candidate {
	candidates := make([]Candidate, 0, len(txns))
	for i := range txns {
		candidates = append(candidates, fromTransaction(&txns[i]))
	}
	return candidates
}

func fromTransaction(txn *ofxgo.Transaction) Candidate {
	cents := ratToCents(&txn.TrnAmt.Rat)

	// The amount sign is authoritative for direction; TRNTYPE is too
	// loosely populated across institutions to be trusted.
	txType := models.TransactionTypeIncome
	if cents < 0 {
		txType = models.TransactionTypeExpense
		cents = -cents
	}

	return Candidate{
		Date:        day(txn.DtPosted.Time),
		Amount:      cents,
		Type:        txType,
		Description: description(txn),
		FITID:       string(txn.FiTID),
	}
}

// ratToCents converts an OFX rational amount to cents, rounding any
// sub-cent noise to the nearest cent.
func ratToCents(r *big.Rat) int64 {
	d := decimal.NewFromBigInt(r.Num(), 0).
		Div(decimal.NewFromBigInt(r.Denom(), 0)).
		Round(2)
	return d.Mul(decimal.NewFromInt(100)).IntPart()
}

func description(txn *ofxgo.Transaction) string {
	name := strings.TrimSpace(string(txn.Name))
	memo := strings.TrimSpace(string(txn.Memo))
	switch {
	case name != "" && memo != "" && name != memo:
		return name + " - " + memo
	case name != "":
		return name
	default:
		return memo
	}
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
