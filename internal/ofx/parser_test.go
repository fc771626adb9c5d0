package ofx

import (
	"strings"
	"testing"
	"time"

	"centavo/internal/models"
	"centavo/internal/testutil"
)

const bankStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240331120000
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>0001
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301
<DTEND>20240331
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310
<TRNAMT>-50.25
<FITID>F1
<NAME>Grocery Store
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240315
<TRNAMT>1500.00
<FITID>F2
<NAME>Payroll
<MEMO>March salary
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1449.75
<DTASOF>20240331
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestParse(t *testing.T) {
	candidates, err := Parse(strings.NewReader(bankStatement))
	testutil.AssertNoError(t, err)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Type != models.TransactionTypeExpense {
		t.Errorf("negative amount must map to expense, got %s", first.Type)
	}
	if first.Amount != 5025 {
		t.Errorf("expected 5025 cents, got %d", first.Amount)
	}
	if want := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, first.Date)
	}
	if first.Description != "Grocery Store" {
		t.Errorf("unexpected description %q", first.Description)
	}
	if first.FITID != "F1" {
		t.Errorf("expected FITID F1, got %q", first.FITID)
	}
	if first.SuggestedCategoryID != nil {
		t.Error("parser must not suggest categories")
	}

	second := candidates[1]
	if second.Type != models.TransactionTypeIncome {
		t.Errorf("positive amount must map to income, got %s", second.Type)
	}
	if second.Amount != 150000 {
		t.Errorf("expected 150000 cents, got %d", second.Amount)
	}
	if second.Description != "Payroll - March salary" {
		t.Errorf("unexpected description %q", second.Description)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("this is not an ofx file"))
	testutil.AssertAppError(t, err, "STATEMENT_PARSE_FAILED")
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	testutil.AssertAppError(t, err, "STATEMENT_PARSE_FAILED")
}
