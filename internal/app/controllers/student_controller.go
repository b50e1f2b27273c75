package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/app/services"
	"github.com/isms-esp/diploma-registry/internal/middleware"
)

// rosterSizeLimit caps uploaded workbooks at 10 MiB.
const rosterSizeLimit = 10 << 20

// StudentController handles student management endpoints
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Create registers one student
// @Summary Create a student
// @Tags students
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student))
}

// GetByID returns one student
// @Summary Get a student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/{id} [get]
func (c *StudentController) GetByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// List returns students filtered by optional program and year
// @Summary List students
// @Tags students
// @Security BearerAuth
// @Param programId query int false "Program filter"
// @Param academicYearId query int false "Academic year filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} dto.APIResponse
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	programID := optionalID(ctx, "programId")
	yearID := optionalID(ctx, "academicYearId")
	page, pageSize := pagination(ctx)

	students, total, err := c.studentService.List(ctx, programID, yearID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{
		"items": students,
		"total": total,
		"page":  page,
	}))
}

// Update modifies a student record
// @Summary Update a student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student))
}

// Delete removes a student without diplomas
// @Summary Delete a student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student deleted"))
}

// ImportRoster imports students from an uploaded Excel workbook
// @Summary Import students from Excel
// @Tags students
// @Security BearerAuth
// @Accept multipart/form-data
// @Param file formData file true "Roster workbook (.xlsx)"
// @Param program_id formData int true "Program"
// @Param academic_year_id formData int true "Academic year"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSummary}
// @Router /students/import-excel [post]
func (c *StudentController) ImportRoster(ctx *gin.Context) {
	programID, err := strconv.ParseInt(ctx.PostForm("program_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "program_id is required")))
		return
	}
	yearID, err := strconv.ParseInt(ctx.PostForm("academic_year_id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "academic_year_id is required")))
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required")))
		return
	}
	if fileHeader.Size > rosterSizeLimit {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file exceeds the 10 MiB limit")))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, rosterSizeLimit))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summary, err := c.studentService.ImportRoster(ctx, data, programID, yearID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(summary))
}

// Template downloads the blank roster workbook
// @Summary Download the roster template
// @Tags students
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /students/excel-template [get]
func (c *StudentController) Template(ctx *gin.Context) {
	data, err := c.studentService.TemplateWorkbook()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	name := fmt.Sprintf("modele_etudiants_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
