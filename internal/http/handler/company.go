package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"companyapi/internal/service"
)

// parseID reads the :id path parameter; only positive integers are accepted.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// notFound answers with an empty body and the configured status.
func notFound(c *fiber.Ctx, status int) error {
	c.Status(status)
	return nil
}

func decodeStrict(c *fiber.Ctx, v any) error {
	if !c.Is("json") {
		return fiber.ErrUnsupportedMediaType
	}
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id must be a positive integer")
}

// parseRequest decodes and validates the JSON body. Unknown keys are rejected so a
// misspelled field fails loudly instead of being stored as NULL. On failure it writes
// the 400 response itself and returns a nil request along with the write error.
func parseRequest(c *fiber.Ctx) (*CompanyRequest, error) {
	var req CompanyRequest
	if err := decodeStrict(c, &req); err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object with known company fields")
	}
	if err := validate.Struct(req); err != nil {
		return nil, writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(err))
	}
	return &req, nil
}

// ListCompanies godoc
// @Summary List companies
// @Description Returns every company, active and inactive, ordered by id.
// @Tags company
// @Produce json
// @Success 200 {array} model.Company
// @Failure 503 {object} errorPayload
// @Router /api/v1/company/list [get]
func ListCompanies(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// FindCompany godoc
// @Summary Find a company
// @Tags company
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} model.Company
// @Failure 400 {object} errorPayload "invalid id, or empty body when the company does not exist"
// @Router /api/v1/company/find/{id} [get]
func FindCompany(svc service.CompanyService, notFoundStatus int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		company, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return notFound(c, notFoundStatus)
			}
			return err
		}
		return c.JSON(company)
	}
}

// CreateCompany godoc
// @Summary Create a company
// @Description The company starts ACTIVE (status 1) with the create audit stamped.
// @Tags company
// @Accept json
// @Produce json
// @Param company body CompanyRequest true "Company fields"
// @Success 200 {object} model.Company
// @Failure 400 {object} errorPayload
// @Router /api/v1/company/create [post]
func CreateCompany(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, werr := parseRequest(c)
		if req == nil {
			return werr
		}
		company, err := svc.Create(c.UserContext(), req.Fields())
		if err != nil {
			return err
		}
		return c.JSON(company)
	}
}

// UpdateCompany godoc
// @Summary Update a company
// @Description Only supplied fields change; id, status and the create audit are preserved.
// @Tags company
// @Accept json
// @Produce json
// @Param id path int true "Company ID"
// @Param company body CompanyRequest true "Fields to change"
// @Success 200 {object} model.Company
// @Failure 400 {object} errorPayload "invalid id or body, or empty body when the company does not exist"
// @Router /api/v1/company/update/{id} [put]
func UpdateCompany(svc service.CompanyService, notFoundStatus int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		req, werr := parseRequest(c)
		if req == nil {
			return werr
		}
		company, err := svc.Update(c.UserContext(), id, req.Fields())
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return notFound(c, notFoundStatus)
			}
			return err
		}
		return c.JSON(company)
	}
}

// DeleteCompany godoc
// @Summary Soft delete a company
// @Description Marks the company INACTIVE (status 0) and stamps the delete audit. The record stays retrievable.
// @Tags company
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} model.Company
// @Failure 400 {object} errorPayload "invalid id, or empty body when the company does not exist"
// @Router /api/v1/company/delete/{id} [delete]
func DeleteCompany(svc service.CompanyService, notFoundStatus int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return invalidID(c)
		}
		company, err := svc.SoftDelete(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return notFound(c, notFoundStatus)
			}
			return err
		}
		return c.JSON(company)
	}
}

// ExportCompanies godoc
// @Summary Export companies
// @Description Uploads a JSON array of every company to object storage and returns a pre-signed download URL.
// @Tags company
// @Produce json
// @Success 200 {object} service.ExportResult
// @Failure 503 {object} errorPayload
// @Router /api/v1/company/export [post]
func ExportCompanies(svc service.CompanyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Export(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
