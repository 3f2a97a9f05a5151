package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"inventory-system/internal/entities"
	"inventory-system/pkg/utils"
)

const assetSheet = "Активы"

var assetHeaders = []interface{}{
	"ID", "Номер ваучера", "Дата", "Донор", "Местоположение", "Статус",
	"Кол-во потерь", "Сумма потерь", "Передал", "Организация", "Передать в",
	"Причина передачи", "Пожертвование", "Проект", "Застрахован", "Полис",
	"Гарантия", "Создан", "Обновлён",
}

// BuildAssetWorkbook собирает xlsx-выгрузку активов. Вызывающий закрывает файл.
func BuildAssetWorkbook(assets []entities.Asset) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", assetSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(assetSheet, "A1", &assetHeaders); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(assetHeaders), 1)
		_ = f.SetCellStyle(assetSheet, "A1", lastHeader, style)
	}

	for i := range assets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := assetRow(&assets[i])
		if err := f.SetSheetRow(assetSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("не удалось записать строку %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(assetSheet, "B", "B", 18)
	_ = f.SetColWidth(assetSheet, "D", "E", 25)
	_ = f.SetColWidth(assetSheet, "I", "L", 25)
	_ = f.SetColWidth(assetSheet, "N", "N", 25)
	return f, nil
}

func assetRow(a *entities.Asset) []interface{} {
	return []interface{}{
		a.ID,
		a.VoucherNumber,
		a.Date.Format(utils.DateLayout),
		a.Donor,
		a.Location,
		string(a.Status),
		nullable(a.LossQuantity.Valid, a.LossQuantity.Int64),
		nullable(a.LossAmount.Valid, a.LossAmount.Float64),
		a.HandoverPerson.String,
		a.HandoverOrganization.String,
		a.TransferTo.String,
		a.TransferReason.String,
		yesNo(a.IsDonation),
		a.ProjectName,
		yesNo(a.IsInsured),
		a.PolicyNumber.String,
		a.Warranty.String,
		a.CreatedAt.Format("2006-01-02 15:04:05"),
		a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func nullable(valid bool, v interface{}) interface{} {
	if !valid {
		return ""
	}
	return v
}

func yesNo(b bool) string {
	if b {
		return "Да"
	}
	return "Нет"
}
