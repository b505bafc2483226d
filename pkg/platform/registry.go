package platform

import (
	"fmt"
	"sort"
	"time"

	"github.com/nikosa/p2pflow/pkg/browser"
	"github.com/nikosa/p2pflow/pkg/models"
)

// Registry holds the known platform descriptors keyed by name.
type Registry struct {
	descriptors map[string]*Descriptor
}

// NewRegistry builds a registry containing all built-in platforms.
func NewRegistry() *Registry {
	r := &Registry{descriptors: make(map[string]*Descriptor)}
	for _, d := range builtins() {
		r.descriptors[d.Name] = d
	}
	return r
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", name)
	}
	return d, nil
}

// Names lists all registered platforms in alphabetical order. The worker
// relies on this order being deterministic.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a descriptor after validating it.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.descriptors[d.Name] = d
	return nil
}

// builtins returns the descriptors for all supported platforms. URLs,
// locators and cash-flow label maps follow each platform's live statement
// export as of the last verification.
func builtins() []*Descriptor {
	return []*Descriptor{
		bondora(),
		dofinance(),
		estateguru(),
		grupeer(),
		iuvo(),
		mintos(),
		peerberry(),
		robocash(),
		swaper(),
		twino(),
		viainvest(),
		viventor(),
	}
}

func bondora() *Descriptor {
	return &Descriptor{
		Name:           "Bondora",
		Currency:       "EUR",
		LoginURL:       "https://www.bondora.com/en/login/",
		StatementURL:   "https://www.bondora.com/en/cashflow/",
		LogoutURL:      "https://www.bondora.com/en/authorize/logout/",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "Email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "Password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Cash flow"},
		StatementCheck: browser.Locator{By: browser.ByName, Value: "StartYear"},
		StartDateField: browser.Locator{By: browser.ByName, Value: "StartMonth"},
		EndDateField:   browser.Locator{By: browser.ByName, Value: "EndMonth"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.search-button"},
		DateFormat:     "02.01.2006",
		DownloadButton: browser.Locator{By: browser.ByLinkText, Value: "Download"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "Email"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:  "Period",
			Label: "Cash flow type",
			Value: "Amount",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Interest received - total":  models.Interest,
			"Net capital deployed":       models.DepositOrOutpayment,
			"Net loan investments":       models.Investment,
			"Principal received - total": models.RedemptionPayment,
		},
		StartBalanceLabel: "Opening balance",
		EndBalanceLabel:   "Closing balance",
		SupportsHeadless:  true,
	}
}

func dofinance() *Descriptor {
	return &Descriptor{
		Name:           "DoFinance",
		Currency:       "EUR",
		LoginURL:       "https://www.dofinance.eu/en/users/login",
		StatementURL:   "https://www.dofinance.eu/en/users/statement",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "input[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "My Investments"},
		StatementCheck: browser.Locator{By: browser.ByName, Value: "date_from"},
		StartDateField: browser.Locator{By: browser.ByName, Value: "date_from"},
		EndDateField:   browser.Locator{By: browser.ByName, Value: "date_to"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.filter-btn"},
		DateFormat:     "02.01.2006",
		Generation: Generation{
			Kind:  GenerationSyncWait,
			Delay: 2 * time.Second,
		},
		DownloadButton: browser.Locator{By: browser.ByLinkText, Value: "XLS"},
		LogoutButton:   browser.Locator{By: browser.ByLinkText, Value: "Logout"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "email"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:  "Processing Date",
			Label: "Transaction Type",
			Value: "Amount, €",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Withdrawal":            models.DepositOrOutpayment,
			"Funding of investment": models.Investment,
			"Principal repayment":   models.RedemptionPayment,
			"Profit payment":        models.Interest,
			"Interest payment":      models.Interest,
		},
		SupportsHeadless: true,
	}
}

func estateguru() *Descriptor {
	return &Descriptor{
		Name:           "Estateguru",
		Currency:       "EUR",
		LoginURL:       "https://estateguru.co/portal/login/auth",
		StatementURL:   "https://estateguru.co/portal/portfolio/account",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "username"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "ACCOUNT BALANCE"},
		StatementCheck: browser.Locator{By: browser.ByCSS, Value: "div.filters"},
		StartDateField: browser.Locator{By: browser.ByID, Value: "dateApproveFilter"},
		EndDateField:   browser.Locator{By: browser.ByID, Value: "dateApproveFilterTo"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.btn-search"},
		DateFormat:     "02/01/2006",
		DownloadButton: browser.Locator{By: browser.ByLinkText, Value: "CSV"},
		LogoutButton:   browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'logout')]"},
		LogoutHover:    browser.Locator{By: browser.ByCSS, Value: "div.user-menu"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "username"},
		Format:         FormatCSV,
		Suffix:         "csv",
		Delimiter:      ',',
		Columns: Columns{
			Date:       "Confirmation Date",
			Label:      "Cash Flow Type",
			Value:      "Amount",
			Balance:    "Available to invest",
			FooterRows: 1,
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Bonus":                   models.BonusPayment,
			"Deposit":                 models.DepositOrOutpayment,
			"Withdrawal":              models.DepositOrOutpayment,
			"Indemnity":               models.LateFeePayment,
			"Penalty":                 models.LateFeePayment,
			"Principal":               models.RedemptionPayment,
			"Investment(Auto Invest)": models.Investment,
			"Interest":                models.Interest,
		},
		SupportsHeadless: true,
	}
}

func grupeer() *Descriptor {
	return &Descriptor{
		Name:           "Grupeer",
		Currency:       "EUR",
		LoginURL:       "https://www.grupeer.com/login",
		StatementURL:   "https://www.grupeer.com/account-statement",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Account Statement"},
		StatementCheck: browser.Locator{By: browser.ByID, Value: "from"},
		StartDateField: browser.Locator{By: browser.ByID, Value: "from"},
		EndDateField:   browser.Locator{By: browser.ByID, Value: "to"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.btn-success"},
		DateFormat:     "02.01.2006",
		DownloadButton: browser.Locator{By: browser.ByLinkText, Value: "Excel"},
		LogoutButton:   browser.Locator{By: browser.ByLinkText, Value: "Logout"},
		LogoutHover:    browser.Locator{By: browser.ByClass, Value: "header-auth"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "email"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:     "Date",
			Label:    "Type",
			Value:    "Amount",
			Currency: "Currency",
			Balance:  "Balance",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Cashback":   models.BonusPayment,
			"Deposit":    models.DepositOrOutpayment,
			"Withdrawal": models.DepositOrOutpayment,
			"Interest":   models.Interest,
			"Investment": models.Investment,
			"Principal":  models.RedemptionPayment,
		},
		// Grupeer's login flow breaks in headless sessions.
		SupportsHeadless: false,
	}
}

func iuvo() *Descriptor {
	return &Descriptor{
		Name:           "Iuvo",
		Currency:       "EUR",
		LoginURL:       "https://www.iuvo-group.com/en/login/",
		StatementURL:   "https://www.iuvo-group.com/en/account-statement/",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "login"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByID, Value: "button_login"},
		LoggedInCheck:  browser.Locator{By: browser.ByID, Value: "p2p_btn_deposit_page_add_funds"},
		StatementCheck: browser.Locator{By: browser.ByID, Value: "date_from"},
		StartDateField: browser.Locator{By: browser.ByID, Value: "date_from"},
		EndDateField:   browser.Locator{By: browser.ByID, Value: "date_to"},
		SubmitButton:   browser.Locator{By: browser.ByID, Value: "account_statement_filters_btn"},
		DateFormat:     "2006-01-02",
		DownloadButton: browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'export_account_statement')]"},
		LogoutButton:   browser.Locator{By: browser.ByID, Value: "p2p_logout"},
		LogoutHover:    browser.Locator{By: browser.ByID, Value: "p2p_btn_profile"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "login"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:       "Date",
			Label:      "Transaction Type",
			Value:      "Turnover",
			Balance:    "Balance",
			HeaderRows: 3,
			FooterRows: 3,
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"deposit":                    models.DepositOrOutpayment,
			"late_fee":                   models.LateFeePayment,
			"payment_interest":           models.Interest,
			"payment_interest_early":     models.Interest,
			"primary_market_auto_invest": models.Investment,
			"payment_principal_buyback":  models.Buyback,
			"payment_principal":          models.RedemptionPayment,
			"payment_principal_early":    models.RedemptionPayment,
		},
		SupportsHeadless: true,
	}
}

func mintos() *Descriptor {
	return &Descriptor{
		Name:           "Mintos",
		Currency:       "EUR",
		LoginURL:       "https://www.mintos.com/en/login",
		StatementURL:   "https://www.mintos.com/en/account-statement/",
		UsernameField:  browser.Locator{By: browser.ByID, Value: "_username"},
		PasswordField:  browser.Locator{By: browser.ByID, Value: "_password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Account Statement"},
		StatementCheck: browser.Locator{By: browser.ByID, Value: "period-from"},
		StartDateField: browser.Locator{By: browser.ByID, Value: "period-from"},
		EndDateField:   browser.Locator{By: browser.ByID, Value: "period-to"},
		SubmitButton:   browser.Locator{By: browser.ByID, Value: "filter-button"},
		DateFormat:     "02.01.2006",
		Generation: Generation{
			Kind:      GenerationAsyncPoll,
			Timeout:   60 * time.Second,
			Interval:  5 * time.Second,
			Indicator: browser.Locator{By: browser.ByID, Value: "export-button"},
		},
		DownloadButton: browser.Locator{By: browser.ByID, Value: "export-button"},
		LogoutButton:   browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'logout')]"},
		LoggedOutCheck: browser.Locator{By: browser.ByID, Value: "header-login-button"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:     "Date",
			Label:    "Details",
			Value:    "Turnover",
			Currency: "Currency",
			Balance:  "Balance",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Cashback bonus":                   models.BonusPayment,
			"Delayed interest income on rebuy": models.BuybackInterest,
			"Interest income":                  models.Interest,
			"Interest income on rebuy":         models.BuybackInterest,
			"Investment principal rebuy":       models.Buyback,
			"Investment principal increase":    models.Investment,
			"Investment principal repayment":   models.RedemptionPayment,
			"Incoming client payment":          models.DepositOrOutpayment,
			"Outgoing client payment":          models.DepositOrOutpayment,
			"Reversed incoming client payment": models.DepositOrOutpayment,
			"Late payment fee income":          models.LateFeePayment,
		},
		SupportsHeadless: true,
	}
}

func peerberry() *Descriptor {
	return &Descriptor{
		Name:           "PeerBerry",
		Currency:       "EUR",
		LoginURL:       "https://peerberry.com/en/login",
		StatementURL:   "https://peerberry.com/en/statement",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Statement"},
		StatementCheck: browser.Locator{By: browser.ByName, Value: "startDate"},
		StartDateField: browser.Locator{By: browser.ByName, Value: "startDate"},
		EndDateField:   browser.Locator{By: browser.ByName, Value: "endDate"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.search"},
		DateFormat:     "2006-01-02",
		DownloadButton: browser.Locator{By: browser.ByCSS, Value: "div.download-xlsx"},
		LogoutButton:   browser.Locator{By: browser.ByCSS, Value: "div.logout"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "email"},
		Format:         FormatCSV,
		Suffix:         "csv",
		Delimiter:      ',',
		Columns: Columns{
			Date:     "Date",
			Label:    "Type",
			Value:    "Amount",
			Currency: "Currency Id",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"BUYBACK_INTEREST":    models.BuybackInterest,
			"BUYBACK_PRINCIPAL":   models.Buyback,
			"INVESTMENT":          models.Investment,
			"REPAYMENT_INTEREST":  models.Interest,
			"REPAYMENT_PRINCIPAL": models.RedemptionPayment,
		},
		SupportsHeadless: true,
	}
}

func robocash() *Descriptor {
	return &Descriptor{
		Name:           "Robocash",
		Currency:       "EUR",
		LoginURL:       "https://robo.cash/login",
		StatementURL:   "https://robo.cash/cabinet/statement",
		UsernameField:  browser.Locator{By: browser.ByID, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByID, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Statement"},
		StatementCheck: browser.Locator{By: browser.ByID, Value: "new_statement"},
		StartDateField: browser.Locator{By: browser.ByID, Value: "date-after"},
		EndDateField:   browser.Locator{By: browser.ByID, Value: "date-before"},
		SubmitButton:   browser.Locator{By: browser.ByID, Value: "new_statement"},
		DateFormat:     "2006-01-02",
		Generation: Generation{
			Kind:      GenerationAsyncPoll,
			Timeout:   2 * time.Minute,
			Interval:  5 * time.Second,
			Indicator: browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'statement/download')]"},
		},
		DownloadButton: browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'statement/download')]"},
		LogoutButton:   browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'logout')]"},
		LoggedOutCheck: browser.Locator{By: browser.ByID, Value: "email"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:    "Date and time",
			Label:   "Operation",
			Value:   "Amount",
			Balance: "Portfolio's balance",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Adding funds":                 models.DepositOrOutpayment,
			"Paying interest":              models.Interest,
			"Purchasing a loan":            models.Investment,
			"Returning a loan":             models.RedemptionPayment,
			"Withdrawal of funds":          models.DepositOrOutpayment,
			"Creating a portfolio":         models.Ignore,
			"Refilling a portfolio":        models.Ignore,
			"Withdrawing from a portfolio": models.Ignore,
		},
		SupportsHeadless: true,
	}
}

func swaper() *Descriptor {
	d := &Descriptor{
		Name:           "Swaper",
		Currency:       "EUR",
		LoginURL:       "https://www.swaper.com/#/dashboard",
		StatementURL:   "https://www.swaper.com/#/overview/account-statement",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByID, Value: "dashboard"},
		StatementCheck: browser.Locator{By: browser.ByClass, Value: "account-statement"},
		DateFormat:     "02.01.2006",
		DownloadButton: browser.Locator{By: browser.ByCSS, Value: "div.download-excel"},
		LogoutButton:   browser.Locator{By: browser.ByID, Value: "logout"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "email"},
		Format:         FormatXLS,
		Suffix:         "xls",
		Columns: Columns{
			Date:  "Booking date",
			Label: "Transaction type",
			Value: "Amount",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"BUYBACK_INTEREST":    models.BuybackInterest,
			"BUYBACK_PRINCIPAL":   models.Buyback,
			"EXTENSION_INTEREST":  models.Interest,
			"FUNDING":             models.DepositOrOutpayment,
			"INVESTMENT":          models.Investment,
			"REPAYMENT_INTEREST":  models.Interest,
			"REPAYMENT_PRINCIPAL": models.RedemptionPayment,
			"WITHDRAWAL":          models.DepositOrOutpayment,
		},
		SupportsHeadless: true,
	}
	// Swaper's date picker cannot be filled as text.
	d.Calendar = &swaperCalendar{}
	return d
}

func twino() *Descriptor {
	return &Descriptor{
		Name:               "Twino",
		Currency:           "EUR",
		LoginURL:           "https://www.twino.eu/en/",
		StatementURL:       "https://www.twino.eu/en/profile/investor/my-investments/account-transactions",
		UsernameField:      browser.Locator{By: browser.ByID, Value: "email"},
		PasswordField:      browser.Locator{By: browser.ByID, Value: "login-password"},
		LoginButton:        browser.Locator{By: browser.ByCSS, Value: "button.login-button"},
		// Twino accounts with SMS confirmation enabled cannot be fetched
		// unattended; the code prompt aborts the session.
		TwoFactorIndicator: browser.Locator{By: browser.ByID, Value: "smsIsActive"},
		LoggedInCheck:      browser.Locator{By: browser.ByXPath, Value: "//a[@href='/en/profile/investor/my-investments/individual-investments']"},
		StatementCheck:     browser.Locator{By: browser.ByXPath, Value: "//a[text()='Account statement']"},
		StartDateField:     browser.Locator{By: browser.ByXPath, Value: "//input[@type='text' and @name='processingDateFrom']"},
		EndDateField:       browser.Locator{By: browser.ByXPath, Value: "//input[@type='text' and @name='processingDateTo']"},
		SubmitButton:       browser.Locator{By: browser.ByCSS, Value: "button.filter-btn"},
		DateFormat:         "02.01.2006",
		DownloadButton:     browser.Locator{By: browser.ByXPath, Value: "//a[contains(@class,'accStatement')]"},
		LogoutButton:       browser.Locator{By: browser.ByXPath, Value: "//a[contains(@href,'logout')]"},
		LoggedOutCheck:     browser.Locator{By: browser.ByID, Value: "email"},
		Format:             FormatXLS,
		Suffix:             "xls",
		Columns: Columns{
			Date:       "Processing Date",
			Label:      "Cash Flow Type",
			Value:      "Amount, EUR",
			HeaderRows: 2,
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"BUYBACK INTEREST":              models.BuybackInterest,
			"BUYBACK PRINCIPAL":             models.Buyback,
			"BUY_SHARES PRINCIPAL":          models.Investment,
			"CURRENCY_FLUCTUATION INTEREST": models.Interest,
			"EXTENSION INTEREST":            models.Interest,
			"EXTENSION PRINCIPAL":           models.RedemptionPayment,
			"REPAYMENT INTEREST":            models.Interest,
			"REPAYMENT PRINCIPAL":           models.RedemptionPayment,
			"REPURCHASE INTEREST":           models.BuybackInterest,
			"REPURCHASE PRINCIPAL":          models.Buyback,
			"SCHEDULE INTEREST":             models.Interest,
		},
		SupportsHeadless: true,
	}
}

func viainvest() *Descriptor {
	return &Descriptor{
		Name:           "Viainvest",
		Currency:       "EUR",
		LoginURL:       "https://viainvest.com/users/login",
		StatementURL:   "https://viainvest.com/en/transactions",
		LogoutURL:      "https://viainvest.com/en/users/logout",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "data[User][email]"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "data[User][passwd]"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "Transactions"},
		StatementCheck: browser.Locator{By: browser.ByName, Value: "from_date"},
		StartDateField: browser.Locator{By: browser.ByName, Value: "from_date"},
		EndDateField:   browser.Locator{By: browser.ByName, Value: "to_date"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.do-report"},
		DateFormat:     "01/02/2006",
		DownloadButton: browser.Locator{By: browser.ByLinkText, Value: "CSV"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "data[User][email]"},
		Format:         FormatCSV,
		Suffix:         "csv",
		Delimiter:      ',',
		Columns: Columns{
			Date:   "Value date",
			Label:  "Transaction type",
			Credit: "Credit (€)",
			Debit:  "Debit (€)",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"Amount invested in loan":                          models.Investment,
			"Amount of interest payment received":              models.Interest,
			"Amount of funds deposited":                        models.DepositOrOutpayment,
			"Amount of principal repayment received":           models.RedemptionPayment,
			"Amount of Withholding Tax deducted":               models.Interest,
			"Correction of amount of Withholding Tax deducted": models.Interest,
			"VIACONTO.se Cashback bonus payment received":      models.BonusPayment,
			"VIASMS.pl Cashback bonus payment received":        models.BonusPayment,
		},
		SupportsHeadless: true,
	}
}

func viventor() *Descriptor {
	return &Descriptor{
		Name:           "Viventor",
		Currency:       "EUR",
		LoginURL:       "https://www.viventor.com/login",
		StatementURL:   "https://www.viventor.com/account-statement",
		LogoutURL:      "https://www.viventor.com/logout",
		UsernameField:  browser.Locator{By: browser.ByName, Value: "email"},
		PasswordField:  browser.Locator{By: browser.ByName, Value: "password"},
		LoginButton:    browser.Locator{By: browser.ByCSS, Value: "button[type=submit]"},
		LoggedInCheck:  browser.Locator{By: browser.ByLinkText, Value: "My investments"},
		StatementCheck: browser.Locator{By: browser.ByName, Value: "startDate"},
		StartDateField: browser.Locator{By: browser.ByName, Value: "startDate"},
		EndDateField:   browser.Locator{By: browser.ByName, Value: "endDate"},
		SubmitButton:   browser.Locator{By: browser.ByCSS, Value: "button.search"},
		DateFormat:     "2006-01-02",
		DownloadButton: browser.Locator{By: browser.ByCSS, Value: "div.download-statement"},
		LoggedOutCheck: browser.Locator{By: browser.ByName, Value: "email"},
		Format:         FormatCSV,
		Suffix:         "csv",
		Delimiter:      ',',
		Columns: Columns{
			Date:    "date",
			Label:   "type",
			Value:   "amount",
			Balance: "residual",
		},
		CashFlowTypes: map[string]models.CashFlowType{
			"BUY_NOTE":            models.Investment,
			"BUYBACK_FEE":         models.LateFeePayment,
			"BUYBACK_INTEREST":    models.BuybackInterest,
			"BUYBACK_PRINCIPAL":   models.Buyback,
			"DEPOSIT":             models.DepositOrOutpayment,
			"REPAYMENT_INTEREST":  models.Interest,
			"REPAYMENT_FEE":       models.LateFeePayment,
			"REPAYMENT_PRINCIPAL": models.RedemptionPayment,
		},
		SupportsHeadless: true,
	}
}
