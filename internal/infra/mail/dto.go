package mail

// SaleNotification is the data of the e-mail sent to the responsible seller
// when a sale is registered. Value and Date come preformatted.
type SaleNotification struct {
	SellerName  string
	LeadName    string
	LeadPhone   string
	Value       string
	Date        string
	Note        string
	CompanyName string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	dialer   Dialer
}
