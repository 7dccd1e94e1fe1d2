package admin

import (
	"strings"

	"autoflix-backend/internal/database"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID              uint   `json:"id"`
	FirstName       string `json:"first_name"`
	Surname         string `json:"surname"`
	ContactNo       string `json:"contact_no"`
	Email           string `json:"email"`
	MembershipLevel string `json:"membership_level"`
	BranchID        uint   `json:"branch_id"`
	CreatedAt       string `json:"created_at"`
}

type UpdateCustomerRequest struct {
	ContactNo         *string `json:"contact_no"`
	MembershipLevelID *uint   `json:"membership_level_id"`
}

func toCustomerResponse(c models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		Surname:         c.Surname,
		ContactNo:       c.ContactNo,
		Email:           c.Email,
		MembershipLevel: c.MembershipLevel.Name,
		BranchID:        c.BranchID,
		CreatedAt:       c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// MÜŞTERİ YÖNETİMİ
// ----------------------------------------

func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		query := database.DB.Model(&models.Customer{}).Preload("MembershipLevel")

		if branchID := c.Query("branch_id"); branchID != "" {
			query = query.Where("branch_id = ?", branchID)
		}

		var customers []models.Customer
		if err := query.Order("id asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		res := make([]CustomerResponse, 0, len(customers))
		for _, cust := range customers {
			res = append(res, toCustomerResponse(cust))
		}

		return c.JSON(res)
	}
}

func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.ContactNo != nil {
			contactNo := strings.TrimSpace(*body.ContactNo)
			if contactNo == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Telefon boş olamaz")
			}
			customer.ContactNo = contactNo
		}
		if body.MembershipLevelID != nil {
			var level models.MembershipLevel
			if err := database.DB.First(&level, "id = ?", *body.MembershipLevelID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Üyelik seviyesi bulunamadı")
			}
			customer.MembershipLevelID = level.ID
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		database.DB.Preload("MembershipLevel").First(&customer, customer.ID)
		return c.JSON(toCustomerResponse(customer))
	}
}

func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		if err := database.DB.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
