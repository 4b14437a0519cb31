package entity

// IssuerProfile son los datos fijos del emisor impresos en cada documento.
type IssuerProfile struct {
	LegalName            string
	GSTIN                string
	OfficeAddress        string
	Contact              string
	BankDetails          string
	FooterNote           string
	SignatureCaption     string
	DefaultSignaturePath string
	TaxLabelA            string
	TaxLabelB            string
}
