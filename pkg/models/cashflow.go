package models

import "strings"

// CashFlowType is the canonical taxonomy for payment and balance categories.
// Every platform statement row is mapped onto one of these so results can be
// compared across platforms.
type CashFlowType string

const (
	Interest            CashFlowType = "interest"
	BuybackInterest     CashFlowType = "buyback_interest"
	BonusPayment        CashFlowType = "bonus_payment"
	Buyback             CashFlowType = "buyback"
	Investment          CashFlowType = "investment"
	RedemptionPayment   CashFlowType = "redemption_payment"
	LateFeePayment      CashFlowType = "late_fee_payment"
	DepositOrOutpayment CashFlowType = "deposit_or_outpayment"
	Default             CashFlowType = "default"
	StartBalance        CashFlowType = "start_balance"
	EndBalance          CashFlowType = "end_balance"
	TotalIncome         CashFlowType = "total_income"

	// Ignore marks statement rows a platform mapping wants dropped without
	// raising an unknown-label diagnostic, e.g. internal portfolio transfers.
	Ignore CashFlowType = "ignore"
)

const unknownPrefix = "unknown:"

// Unknown builds a cash flow type for a label the platform mapping does not
// recognize. The original label is kept for diagnostics.
func Unknown(label string) CashFlowType {
	return CashFlowType(unknownPrefix + label)
}

// IsUnknown reports whether t carries an unrecognized source label.
func (t CashFlowType) IsUnknown() bool {
	return strings.HasPrefix(string(t), unknownPrefix)
}

// Label returns the original statement label for unknown types and the
// canonical name otherwise.
func (t CashFlowType) Label() string {
	if t.IsUnknown() {
		return strings.TrimPrefix(string(t), unknownPrefix)
	}
	return string(t)
}

// IncomeTypes are the categories that count towards total income.
var IncomeTypes = []CashFlowType{
	Interest,
	LateFeePayment,
	BuybackInterest,
	BonusPayment,
	Default,
}

// ResultTypes is the column order used in result tables and exports.
var ResultTypes = []CashFlowType{
	StartBalance,
	EndBalance,
	TotalIncome,
	Interest,
	Investment,
	RedemptionPayment,
	Buyback,
	BuybackInterest,
	BonusPayment,
	LateFeePayment,
	DepositOrOutpayment,
	Default,
}

// IsBalance reports whether t is a start or end balance marker rather than a
// cash flow.
func (t CashFlowType) IsBalance() bool {
	return t == StartBalance || t == EndBalance
}
