package admin

import (
	"strings"

	"autoflix-backend/internal/database"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type StaffResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	ContactNo string `json:"contact_no"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	BranchID  *uint  `json:"branch_id"`
	CreatedAt string `json:"created_at"`
}

type CreateStaffRequest struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	ContactNo string `json:"contact_no"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BranchID  uint   `json:"branch_id"`
}

type UpdateStaffRequest struct {
	FirstName *string `json:"first_name"`
	Surname   *string `json:"surname"`
	ContactNo *string `json:"contact_no"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	BranchID  *uint   `json:"branch_id"`
}

func toStaffResponse(u models.User) StaffResponse {
	return StaffResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		Surname:   u.Surname,
		ContactNo: u.ContactNo,
		Email:     u.Email,
		Role:      string(u.Role),
		BranchID:  u.BranchID,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// PERSONEL YÖNETİMİ
// ----------------------------------------

func CreateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.FirstName = strings.TrimSpace(body.FirstName)
		body.Surname = strings.TrimSpace(body.Surname)
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.FirstName == "" || body.Surname == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ad, soyad, e-posta ve şifre zorunludur")
		}
		if body.BranchID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Şube seçimi zorunludur")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
		}

		var count int64
		database.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu e-posta adresi zaten kayıtlı")
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre oluşturulamadı")
		}

		user := models.User{
			FirstName:    body.FirstName,
			Surname:      body.Surname,
			ContactNo:    strings.TrimSpace(body.ContactNo),
			Email:        body.Email,
			PasswordHash: string(hashed),
			Role:         models.RoleStaff,
			BranchID:     &branch.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toStaffResponse(user))
	}
}

func ListStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {

		query := database.DB.Model(&models.User{}).Where("role = ?", models.RoleStaff)

		if branchID := c.Query("branch_id"); branchID != "" {
			query = query.Where("branch_id = ?", branchID)
		}

		var users []models.User
		if err := query.Order("id asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel listelenemedi")
		}

		res := make([]StaffResponse, 0, len(users))
		for _, u := range users {
			res = append(res, toStaffResponse(u))
		}

		return c.JSON(res)
	}
}

func UpdateStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ? AND role = ?", id, models.RoleStaff).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		var body UpdateStaffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.FirstName != nil {
			name := strings.TrimSpace(*body.FirstName)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ad boş olamaz")
			}
			user.FirstName = name
		}
		if body.Surname != nil {
			surname := strings.TrimSpace(*body.Surname)
			if surname == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Soyad boş olamaz")
			}
			user.Surname = surname
		}
		if body.ContactNo != nil {
			user.ContactNo = strings.TrimSpace(*body.ContactNo)
		}
		if body.Email != nil {
			email := strings.TrimSpace(strings.ToLower(*body.Email))
			if email == "" {
				return fiber.NewError(fiber.StatusBadRequest, "E-posta boş olamaz")
			}

			var count int64
			database.DB.Model(&models.User{}).Where("email = ? AND id != ?", email, user.ID).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu e-posta adresi zaten kayıtlı")
			}
			user.Email = email
		}
		if body.BranchID != nil {
			var branch models.Branch
			if err := database.DB.First(&branch, "id = ?", *body.BranchID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Şube bulunamadı")
			}
			user.BranchID = &branch.ID
		}
		if body.Password != nil && *body.Password != "" {
			hashed, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre oluşturulamadı")
			}
			user.PasswordHash = string(hashed)
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel güncellenemedi")
		}

		return c.JSON(toStaffResponse(user))
	}
}

func DeleteStaffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var user models.User
		if err := database.DB.First(&user, "id = ? AND role = ?", id, models.RoleStaff).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
		}

		if err := database.DB.Delete(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Personel silinemedi")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
