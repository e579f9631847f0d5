package services

import (
	"errors"
	"fmt"

	"freightflow/internal/order-service/core/domain/dto"
	"freightflow/internal/order-service/core/myerrors"
)

var (
	ErrEmptyField      = errors.New("field is empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrFieldTooLong    = errors.New("maximum 255 characters allowed")
)

func validateSubmitOrder(req dto.SubmitOrderRequestDto) error {
	if err := requireString(req.SupplierID); err != nil {
		return myerrors.Validationf("invalid supplier_id: %v", err)
	}
	for name, f := range map[string]*string{
		"state":          req.State,
		"district":       req.District,
		"place":          req.Place,
		"vehicle_number": req.VehicleNumber,
		"body_type":      req.BodyType,
	} {
		if err := requireString(f); err != nil {
			return myerrors.Validationf("invalid %s: %v", name, err)
		}
	}
	return nil
}

func validateCreateRequest(req dto.CreateRequestDto) error {
	for name, f := range map[string]*string{
		"buyer_id":      req.BuyerID,
		"load_details":  req.LoadDetails,
		"from_state":    req.FromState,
		"from_district": req.FromDistrict,
		"from_place":    req.FromPlace,
		"to_state":      req.ToState,
		"to_district":   req.ToDistrict,
		"to_place":      req.ToPlace,
		"required_date": req.RequiredDate,
	} {
		if err := requireString(f); err != nil {
			return myerrors.Validationf("invalid %s: %v", name, err)
		}
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		return myerrors.Validationf("invalid quantity: %v", ErrInvalidQuantity)
	}
	return nil
}

func requireString(s *string) error {
	if s == nil || *s == "" {
		return ErrEmptyField
	}
	if len(*s) > 255 {
		return fmt.Errorf("%w", ErrFieldTooLong)
	}
	return nil
}
