package mockapi

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/pkg/model"
)

// MaxDelay caps the /debug/delay route.
const MaxDelay = 2 * time.Minute

const userKey = "user"

// Handler serves the mock API. Some routes answer with the
// {success, code, data, message} envelope and some with the bare payload,
// matching the mix the real backend produces.
type Handler struct {
	Logger *zap.Logger
	Store  *Store
}

func NewHandler(logger *zap.Logger, store *Store) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Logger: logger, Store: store}
}

func envelope(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": status < 300,
		"code":    status,
		"data":    data,
		"message": message,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth rejects requests without a live token.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	user, ok := h.Store.UserByToken(bearer(c))
	if !ok {
		h.Logger.Debug("mock.unauthorized", zap.String("path", c.Path()))
		return fail(c, fiber.StatusUnauthorized, "Session expired. Please sign in again.")
	}
	c.Locals(userKey, user)
	return c.Next()
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	var req model.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	payload, ok := h.Store.SignIn(req.Email, req.Password)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}
	return envelope(c, fiber.StatusOK, payload, "signed in")
}

func (h *Handler) SignUp(c *fiber.Ctx) error {
	var req model.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fiber.Map{"message": "email and a password of at least 8 characters are required"},
		})
	}
	payload, ok := h.Store.SignUp(req)
	if !ok {
		return fail(c, fiber.StatusConflict, "An account with this email already exists")
	}
	return envelope(c, fiber.StatusCreated, payload, "account created")
}

func (h *Handler) SignOut(c *fiber.Ctx) error {
	h.Store.Revoke(bearer(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(c.Locals(userKey))
}

func (h *Handler) ListAssessments(c *fiber.Ctx) error {
	return envelope(c, fiber.StatusOK, h.Store.Assessments(c.Query("status"), c.Query("cursor")), "")
}

// AssessmentResult answers with the bare payload.
func (h *Handler) AssessmentResult(c *fiber.Ctx) error {
	res, ok := h.Store.Result(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Assessment not found")
	}
	return c.JSON(res)
}

func (h *Handler) CompareAssessments(c *fiber.Ctx) error {
	first, second := c.Query("first"), c.Query("second")
	if first == "" || second == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "first and second are required"})
	}
	a, ok := h.Store.Result(first)
	if !ok {
		return fail(c, fiber.StatusNotFound, "Assessment "+first+" not found")
	}
	b, ok := h.Store.Result(second)
	if !ok {
		return fail(c, fiber.StatusNotFound, "Assessment "+second+" not found")
	}
	return envelope(c, fiber.StatusOK, model.Comparison{First: a, Second: b}, "")
}

func (h *Handler) CreateAssessment(c *fiber.Ctx) error {
	var req model.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return fail(c, fiber.StatusBadRequest, "title is required")
	}
	return envelope(c, fiber.StatusCreated, h.Store.CreateAssessment(req), "assessment created")
}

// Plans answers with the bare payload.
func (h *Handler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.Store.Plans())
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	var req model.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	plan, ok := h.Store.Plan(req.PlanID)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Unknown plan "+req.PlanID)
	}
	h.Store.Subscribe(plan)
	sessionID := "cs_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	return envelope(c, fiber.StatusOK, model.CheckoutSession{
		SessionID:   sessionID,
		CheckoutURL: "https://checkout.example.com/pay/" + sessionID,
	}, "")
}

func (h *Handler) Subscription(c *fiber.Ctx) error {
	return envelope(c, fiber.StatusOK, h.Store.Subscription(), "")
}

func (h *Handler) CancelSubscription(c *fiber.Ctx) error {
	return envelope(c, fiber.StatusOK, h.Store.CancelSubscription(), "subscription will end with the current period")
}

func (h *Handler) Members(c *fiber.Ctx) error {
	return envelope(c, fiber.StatusOK, h.Store.Members(), "")
}

func (h *Handler) Invite(c *fiber.Ctx) error {
	var req model.InviteRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return fail(c, fiber.StatusBadRequest, "email is required")
	}
	if req.Role == "" {
		req.Role = "viewer"
	}
	return envelope(c, fiber.StatusCreated, h.Store.Invite(req), "invitation sent")
}

func (h *Handler) RemoveMember(c *fiber.Ctx) error {
	if !h.Store.RemoveMember(c.Params("id")) {
		return fail(c, fiber.StatusNotFound, "Member not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Roles(c *fiber.Ctx) error {
	return c.JSON(h.Store.Roles())
}

func (h *Handler) AssignRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	m, ok := h.Store.AssignRole(c.Params("userID"), body.Role)
	if !ok {
		return fail(c, fiber.StatusNotFound, "Member or role not found")
	}
	return envelope(c, fiber.StatusOK, m, "")
}

func (h *Handler) ListUseCases(c *fiber.Ctx) error {
	return envelope(c, fiber.StatusOK, h.Store.UseCases(c.Query("category"), c.Query("cursor")), "")
}

func (h *Handler) GetUseCase(c *fiber.Ctx) error {
	uc, ok := h.Store.UseCase(c.Params("id"))
	if !ok {
		return fail(c, fiber.StatusNotFound, "Use case not found")
	}
	return envelope(c, fiber.StatusOK, uc, "")
}

func (h *Handler) CreateUseCase(c *fiber.Ctx) error {
	var uc model.UseCase
	if err := c.BodyParser(&uc); err != nil || uc.Title == "" {
		return fail(c, fiber.StatusBadRequest, "title is required")
	}
	uc.ID = ""
	return envelope(c, fiber.StatusCreated, h.Store.PutUseCase(uc), "")
}

func (h *Handler) UpdateUseCase(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, ok := h.Store.UseCase(id); !ok {
		return fail(c, fiber.StatusNotFound, "Use case not found")
	}
	var uc model.UseCase
	if err := c.BodyParser(&uc); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	uc.ID = id
	return envelope(c, fiber.StatusOK, h.Store.PutUseCase(uc), "")
}

func (h *Handler) DeleteUseCase(c *fiber.Ctx) error {
	if !h.Store.DeleteUseCase(c.Params("id")) {
		return fail(c, fiber.StatusNotFound, "Use case not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportUseCases accepts a CSV upload with a header row containing at least
// title and category.
func (h *Handler) ImportUseCases(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "unreadable upload")
	}
	defer func() { _ = f.Close() }()

	summary, err := h.importCSV(f)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	h.Logger.Info("mock.usecase_import",
		zap.String("file", fh.Filename),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped))
	return envelope(c, fiber.StatusOK, summary, "")
}

func (h *Handler) importCSV(r io.Reader) (model.ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return model.ImportSummary{}, errors.New("missing header row")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	titleIdx, okTitle := col["title"]
	catIdx, okCat := col["category"]
	if !okTitle || !okCat {
		return model.ImportSummary{}, errors.New("header must include title and category")
	}

	var sum model.ImportSummary
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil || titleIdx >= len(rec) || catIdx >= len(rec) || rec[titleIdx] == "" {
			sum.Skipped++
			sum.Errors = append(sum.Errors, "line "+strconv.Itoa(line)+": missing title or category")
			continue
		}
		uc := model.UseCase{Title: rec[titleIdx], Category: rec[catIdx]}
		if i, ok := col["description"]; ok && i < len(rec) {
			uc.Description = rec[i]
		}
		h.Store.PutUseCase(uc)
		sum.Imported++
	}
	return sum, nil
}

// Terms answers with the bare payload.
func (h *Handler) Terms(c *fiber.Ctx) error {
	return c.JSON(h.Store.Terms())
}

// delayFor converts ms to a duration capped at MaxDelay. The cap is checked
// before multiplying so huge values cannot overflow.
func delayFor(ms int) time.Duration {
	if ms > int(MaxDelay/time.Millisecond) {
		return MaxDelay
	}
	return time.Duration(ms) * time.Millisecond
}

// Delay sleeps for ?ms= milliseconds before answering, for timeout checks.
func (h *Handler) Delay(c *fiber.Ctx) error {
	ms, err := strconv.Atoi(c.Query("ms", "0"))
	if err != nil || ms < 0 {
		return fail(c, fiber.StatusBadRequest, "ms must be a non-negative integer")
	}
	d := delayFor(ms)
	time.Sleep(d)
	return envelope(c, fiber.StatusOK, fiber.Map{"slept_ms": d.Milliseconds()}, "")
}
