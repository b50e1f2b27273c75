package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/app/models/dto"
	"github.com/isms-esp/diploma-registry/internal/pkg/apperrors"
	"github.com/isms-esp/diploma-registry/internal/pkg/fingerprint"
	"github.com/isms-esp/diploma-registry/internal/pkg/pdftemplate"
	"github.com/isms-esp/diploma-registry/internal/pkg/validation"
)

type fakeStudents struct {
	students map[int64]*models.Student
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudents) ListByProgramYear(_ context.Context, programID, academicYearID int64) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		if s.ProgramID == programID && s.AcademicYearID == academicYearID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeStructures struct {
	structure *models.DiplomaStructure
	err       error
}

func (f *fakeStructures) GetActive(context.Context) (*models.DiplomaStructure, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.structure, nil
}

type fakeDiplomaStore struct {
	existing  map[string]bool // "studentID/year/type"
	created   []*models.Diploma
	createErr error
	nextNum   int
}

func activeKey(studentID int64, year int, diplomaType string) string {
	return fmt.Sprintf("%d/%d/%s", studentID, year, diplomaType)
}

func (f *fakeDiplomaStore) ExistsActiveFor(_ context.Context, studentID int64, awardYear int, diplomaType string) (bool, error) {
	return f.existing[activeKey(studentID, awardYear, diplomaType)], nil
}

func (f *fakeDiplomaStore) NextNumber(context.Context, int) (int, error) {
	return f.nextNum + 1, nil
}

func (f *fakeDiplomaStore) CreateIssued(_ context.Context, d *models.Diploma) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.existing[activeKey(d.StudentID, d.AwardYear, d.Type)] {
		return apperrors.ErrDiplomaAlreadyIssued
	}
	if d.Number != f.nextNum+1 {
		return apperrors.ErrPersistenceConflict
	}
	f.nextNum++
	d.ID = int64(f.nextNum)
	d.IssuedAt = time.Now()
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[activeKey(d.StudentID, d.AwardYear, d.Type)] = true
	f.created = append(f.created, d)
	return nil
}

type fakeRenderer struct {
	calls     int
	fail      bool
	lastInput *pdftemplate.Input
}

func (f *fakeRenderer) Render(in *pdftemplate.Input) ([]byte, error) {
	f.calls++
	f.lastInput = in
	if f.fail {
		return nil, errors.New("render failed")
	}
	return []byte(fmt.Sprintf("%%PDF N°%d for %s", in.DiplomaNumber, in.VerificationID)), nil
}

func (f *fakeRenderer) VerificationURL(id string) string {
	return "https://verify.example.org/verify/" + id + "/"
}

type fakeSealer struct {
	fail bool
}

func (f *fakeSealer) Seal(data []byte) ([]byte, error) {
	if f.fail {
		return nil, apperrors.ErrSigningFailed
	}
	return append([]byte("SEALED:"), data...), nil
}

type fakeStorage struct {
	files   map[string][]byte
	removed []string
}

func (f *fakeStorage) SaveBytes(name string, data []byte) (string, error) {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[name] = data
	return name, nil
}

func (f *fakeStorage) Remove(path string) error {
	delete(f.files, path)
	f.removed = append(f.removed, path)
	return nil
}

func testStudent(id int64) *models.Student {
	return &models.Student{
		ID:             id,
		NameFR:         "DIALLO Mamadou",
		NameAR:         "ديالو ممادو",
		Matricule:      21000 + id,
		NNI:            fmt.Sprintf("12345678%02d", id),
		BirthDate:      time.Date(2001, 5, 14, 0, 0, 0, 0, time.UTC),
		BirthPlaceFR:   "Nouakchott",
		ProgramID:      1,
		AcademicYearID: 1,
		Program:        &models.Program{ID: 1, Code: "GI", NameFR: "Génie Informatique"},
		AcademicYear:   &models.AcademicYear{ID: 1, Code: "2023-2024"},
	}
}

func newIssuanceFixture(t *testing.T) (*IssuanceService, *fakeStudents, *fakeDiplomaStore, *fakeRenderer, *fakeStorage) {
	t.Helper()
	students := &fakeStudents{students: map[int64]*models.Student{1: testStudent(1)}}
	structures := &fakeStructures{structure: &models.DiplomaStructure{TitreFR: "Diplôme de Licence"}}
	store := &fakeDiplomaStore{existing: map[string]bool{}}
	renderer := &fakeRenderer{}
	storage := &fakeStorage{}
	svc := NewIssuanceService(students, structures, store, renderer, &fakeSealer{}, storage, true)
	return svc, students, store, renderer, storage
}

func TestIssueSuccess(t *testing.T) {
	svc, _, store, _, storage := newIssuanceFixture(t)

	diploma, err := svc.Issue(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if diploma.Type != models.DefaultDiplomaType {
		t.Errorf("type = %q, want default %q", diploma.Type, models.DefaultDiplomaType)
	}
	if diploma.AwardYear != 2024 {
		t.Errorf("award year = %d, want 2024", diploma.AwardYear)
	}
	if diploma.Number != 1 {
		t.Errorf("number = %d, want 1", diploma.Number)
	}
	if !diploma.IsSigned {
		t.Error("diploma should be marked signed")
	}
	if !validation.IsVerificationToken(diploma.VerificationID) {
		t.Errorf("verification id %q is not a 32-hex token", diploma.VerificationID)
	}

	stored, ok := storage.files[diploma.FilePath]
	if !ok {
		t.Fatalf("sealed document not stored at %q", diploma.FilePath)
	}
	if diploma.ContentHash != fingerprint.Sum(stored) {
		t.Error("content hash does not match the stored document")
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 created diploma, got %d", len(store.created))
	}
}

func TestIssueEmbedsAssignedNumber(t *testing.T) {
	svc, students, store, renderer, _ := newIssuanceFixture(t)
	students.students[2] = testStudent(2)

	first, err := svc.Issue(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	second, err := svc.Issue(context.Background(), 2, "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if first.Number != 1 || second.Number != 2 {
		t.Fatalf("numbers = %d, %d, want 1, 2", first.Number, second.Number)
	}
	if renderer.lastInput.DiplomaNumber != second.Number {
		t.Errorf("rendered document carries number %d, record carries %d",
			renderer.lastInput.DiplomaNumber, second.Number)
	}
	if renderer.lastInput.IssuedAt.IsZero() {
		t.Error("rendered document should carry the issuance date")
	}
	if len(store.created) != 2 {
		t.Fatalf("expected 2 created diplomas, got %d", len(store.created))
	}
}

func TestIssueDuplicateBlocksBeforeRender(t *testing.T) {
	svc, _, store, renderer, _ := newIssuanceFixture(t)
	store.existing[activeKey(1, 2024, models.DefaultDiplomaType)] = true

	_, err := svc.Issue(context.Background(), 1, "")
	if !errors.Is(err, apperrors.ErrDiplomaAlreadyIssued) {
		t.Fatalf("err = %v, want ErrDiplomaAlreadyIssued", err)
	}
	if renderer.calls != 0 {
		t.Error("renderer should not run for a duplicate issuance")
	}
}

func TestIssueSigningFailureAborts(t *testing.T) {
	students := &fakeStudents{students: map[int64]*models.Student{1: testStudent(1)}}
	structures := &fakeStructures{structure: &models.DiplomaStructure{}}
	store := &fakeDiplomaStore{existing: map[string]bool{}}
	storage := &fakeStorage{}
	svc := NewIssuanceService(students, structures, store, &fakeRenderer{}, &fakeSealer{fail: true}, storage, true)

	_, err := svc.Issue(context.Background(), 1, "")
	if !errors.Is(err, apperrors.ErrSigningFailed) {
		t.Fatalf("err = %v, want ErrSigningFailed", err)
	}
	if len(store.created) != 0 {
		t.Error("no diploma should be persisted when sealing fails")
	}
	if len(storage.files) != 0 {
		t.Error("no document should be stored when sealing fails")
	}
}

func TestIssueSigningOptionalKeepsUnsigned(t *testing.T) {
	students := &fakeStudents{students: map[int64]*models.Student{1: testStudent(1)}}
	structures := &fakeStructures{structure: &models.DiplomaStructure{}}
	store := &fakeDiplomaStore{existing: map[string]bool{}}
	svc := NewIssuanceService(students, structures, store, &fakeRenderer{}, &fakeSealer{fail: true}, &fakeStorage{}, false)

	diploma, err := svc.Issue(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if diploma.IsSigned {
		t.Error("diploma should be flagged unsigned when sealing failed")
	}
}

func TestIssueCleansUpFileOnPersistenceFailure(t *testing.T) {
	svc, _, store, _, storage := newIssuanceFixture(t)
	store.createErr = apperrors.ErrPersistenceConflict

	_, err := svc.Issue(context.Background(), 1, "")
	if !errors.Is(err, apperrors.ErrPersistenceConflict) {
		t.Fatalf("err = %v, want ErrPersistenceConflict", err)
	}
	if len(storage.removed) != 1 {
		t.Fatalf("expected 1 removed file, got %d", len(storage.removed))
	}
	if len(storage.files) != 0 {
		t.Error("stored document should have been removed")
	}
}

func TestBatchIssueSkipsExisting(t *testing.T) {
	svc, students, store, _, _ := newIssuanceFixture(t)
	students.students[2] = testStudent(2)
	students.students[3] = testStudent(3)
	store.existing[activeKey(2, 2024, models.DefaultDiplomaType)] = true

	resp, err := svc.BatchIssue(context.Background(), &dto.BatchIssueRequest{
		ProgramID:      1,
		AcademicYearID: 1,
	})
	if err != nil {
		t.Fatalf("BatchIssue returned error: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if resp.Generated != 2 {
		t.Errorf("generated = %d, want 2", resp.Generated)
	}
	if resp.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", resp.Skipped)
	}
}

func TestBatchIssueContinuesPastFailures(t *testing.T) {
	svc, students, _, _, _ := newIssuanceFixture(t)
	students.students[2] = testStudent(2)
	students.students[2].AcademicYear = &models.AcademicYear{ID: 1, Code: "pas-une-annee"}
	students.students[3] = testStudent(3)

	resp, err := svc.BatchIssue(context.Background(), &dto.BatchIssueRequest{
		ProgramID:      1,
		AcademicYearID: 1,
	})
	if err != nil {
		t.Fatalf("BatchIssue returned error: %v", err)
	}

	if resp.Total != 3 {
		t.Errorf("total = %d, want 3", resp.Total)
	}
	if resp.Generated != 2 {
		t.Errorf("generated = %d, want 2", resp.Generated)
	}
	if resp.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", resp.Skipped)
	}
}

func TestBatchIssueEmptySelection(t *testing.T) {
	svc, _, _, _, _ := newIssuanceFixture(t)

	_, err := svc.BatchIssue(context.Background(), &dto.BatchIssueRequest{
		ProgramID:      99,
		AcademicYearID: 1,
	})
	if !errors.Is(err, apperrors.ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
}
