package checkout

import (
	"strings"

	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/record"
)

// Cart message constants expected by the store page.
const (
	TypeAddToCart  = "addToCart"
	PackageOption  = "Tipo de Configuración"
	SpecFieldTitle = "Especificaciones"
	defaultChoice  = "Por defecto"
)

// TextField is a free-text field attached to a cart line.
type TextField struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// CartOptions are the product options of a cart line.
type CartOptions struct {
	Choices          map[string]string `json:"choices"`
	CustomTextFields []TextField       `json:"customTextFields"`
}

// AddToCart is the payload broadcast to the embedding page.
type AddToCart struct {
	Type      string      `json:"type"`
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Options   CartOptions `json:"options"`
}

// Cart builds the add-to-cart payload for a configured product.
func Cart(def product.Definition, rec *record.Record) AddToCart {
	return AddToCart{
		Type:      TypeAddToCart,
		ProductID: def.ProductID,
		Quantity:  1,
		Options: CartOptions{
			Choices: map[string]string{PackageOption: def.Package},
			CustomTextFields: []TextField{{
				Title: SpecFieldTitle,
				Value: Specification(def.SpecFields, rec),
			}},
		},
	}
}

// Specification joins the chosen color names (e.g. "Chasis: Azul, Botones: Rojo, Rojo, Knobs: Rosa").
func Specification(fields []product.SpecField, rec *record.Record) string {
	segments := make([]string, 0, len(fields))
	for _, f := range fields {
		var value string
		if f.View == parts.ViewChassis {
			value = rec.Chassis()
		} else {
			value = strings.Join(rec.GroupColors(string(f.View)), ", ")
		}
		if value == "" {
			value = defaultChoice
		}
		segments = append(segments, f.Label+": "+value)
	}

	return strings.Join(segments, ", ")
}
