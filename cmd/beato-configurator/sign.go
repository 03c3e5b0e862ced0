package main

import (
	"fmt"
	"os"

	"github.com/woozymasta/beato-configurator/internal/checkout"
)

type signCmd struct {
	Args struct {
		Reference string `positional-arg-name:"REFERENCE" description:"Reference code (default: new for --product)"`
	} `positional-args:"true"`

	Product  string `long:"product" default:"beato" description:"Product used for a generated reference"`
	Amount   string `short:"a" long:"amount" required:"true" description:"Amount (e.g. 250.00)"`
	Currency string `short:"c" long:"currency" default:"USD" description:"Currency"`

	APIKey     string `long:"api-key" env:"PAYU_API_KEY" description:"Merchant API key"`
	MerchantID string `long:"merchant-id" env:"PAYU_MERCHANT_ID" description:"Merchant id"`
}

// Execute prints the reference code and its signature.
func (c *signCmd) Execute(_ []string) error {
	ref := c.Args.Reference
	if ref == "" {
		ref = checkout.NewReference(c.Product)
	}

	creds := checkout.Credentials{APIKey: c.APIKey, MerchantID: c.MerchantID}
	signature, err := creds.Sign(checkout.SignatureRequest{
		ReferenceCode: ref,
		Amount:        c.Amount,
		Currency:      c.Currency,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stdout, "reference: %s\nsignature: %s\n", ref, signature)

	return err
}
