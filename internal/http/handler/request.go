package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"companyapi/internal/model"
)

// CompanyRequest is the JSON body of create and update calls.
// Omitted or null fields are "not supplied". Length limits follow the company table columns.
type CompanyRequest struct {
	LegalName          *string `json:"legalName" validate:"omitempty,max=255" example:"Acme S.A.C."`
	DocumentType       *string `json:"documentType" validate:"omitempty,max=20" example:"RUC"`
	DocumentNumber     *string `json:"documentNumber" validate:"omitempty,max=20" example:"20123456789"`
	TaxCondition       *string `json:"taxCondition" validate:"omitempty,max=50" example:"HABIDO"`
	Address            *string `json:"address" validate:"omitempty,max=255" example:"Av. Central 100"`
	District           *string `json:"district" validate:"omitempty,max=100" example:"Miraflores"`
	Province           *string `json:"province" validate:"omitempty,max=100" example:"Lima"`
	Department         *string `json:"department" validate:"omitempty,max=100" example:"Lima"`
	IsWithholdingAgent *bool   `json:"isWithholdingAgent" example:"false"`
}

// Fields maps the request onto the domain type.
func (r CompanyRequest) Fields() model.CompanyFields {
	return model.CompanyFields{
		LegalName:          r.LegalName,
		DocumentType:       r.DocumentType,
		DocumentNumber:     r.DocumentNumber,
		TaxCondition:       r.TaxCondition,
		Address:            r.Address,
		District:           r.District,
		Province:           r.Province,
		Department:         r.Department,
		IsWithholdingAgent: r.IsWithholdingAgent,
	}
}

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validator errors as "field must be at most N characters; ...".
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
