package service

import (
	"context"

	"drivequest-fleet/internal/domain"
	"drivequest-fleet/internal/logger"
	"drivequest-fleet/internal/utils"
)

type invoiceService struct {
	vehicles VehicleService
	rates    utils.Rates
}

func NewInvoiceService(vehicles VehicleService, rates utils.Rates) InvoiceService {
	return &invoiceService{vehicles: vehicles, rates: rates}
}

func (s *invoiceService) Invoice(ctx context.Context, plate string) (*domain.Invoice, error) {
	logger.EnterMethod("invoiceService.Invoice", "plate", plate)
	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		logger.ExitMethodWithError("invoiceService.Invoice", err, "plate", plate)
		return nil, err
	}
	inv := utils.CalculateInvoice(v, s.rates)
	logger.ExitMethod("invoiceService.Invoice", "plate", v.Plate, "total", inv.Total)
	return &inv, nil
}

func (s *invoiceService) Summary(ctx context.Context, plate string) (string, error) {
	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return "", err
	}
	return utils.Summary(utils.CalculateInvoice(v, s.rates), v.Kind.Capacity()), nil
}

func (s *invoiceService) Compare(ctx context.Context, firstPlate, secondPlate string) (*domain.CostComparison, error) {
	first, err := s.vehicles.FindByPlate(ctx, firstPlate)
	if err != nil {
		return nil, err
	}
	second, err := s.vehicles.FindByPlate(ctx, secondPlate)
	if err != nil {
		return nil, err
	}
	c := utils.CompareCosts(first, second, s.rates)
	return &c, nil
}

func (s *invoiceService) AverageDailyCost(ctx context.Context, plate string) (float64, error) {
	v, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return 0, err
	}
	return utils.AverageDailyCost(v, s.rates)
}
