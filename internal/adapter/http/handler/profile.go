package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/swiftdrop/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/swiftdrop/internal/domain/models"
	"github.com/Temutjin2k/swiftdrop/pkg/logger"
	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/validator"
)

type ProfileStore interface {
	Profile(ctx context.Context) (*models.StoredUser, error)
	SaveProfile(ctx context.Context, user *models.StoredUser) error
	SeenOnboarding(ctx context.Context) (bool, error)
	MarkOnboardingSeen(ctx context.Context) error
	Registered(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}

type Profile struct {
	store ProfileStore
	l     logger.Logger
}

func NewProfile(store ProfileStore, l logger.Logger) *Profile {
	return &Profile{
		store: store,
		l:     l,
	}
}

// Get godoc
// @Summary      Profile
// @Description  Returns the account profile and onboarding flags
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/profile [get]
func (h *Profile) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	stored, err := h.store.Profile(ctx)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	seen, err := h.store.SeenOnboarding(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read onboarding flag", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	user := stored.User
	user.SeenOnboarding = seen

	if err := writeJSON(w, http.StatusOK, envelope{"profile": user}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Update godoc
// @Summary      Update profile
// @Description  Changes the display name and phone number
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        request  body      dto.UpdateProfileRequest  true  "Fields to update"
// @Success      200  {object}  map[string]any
// @Failure      422  {object}  map[string]any
// @Security     BearerAuth
// @Router       /v1/profile [put]
func (h *Profile) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_profile")

	var req dto.UpdateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if dto.ValidateUpdateProfile(v, &req); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	stored, err := h.store.Profile(ctx)
	if err != nil {
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if req.Name != "" {
		stored.Name = req.Name
	}
	if req.Phone != "" {
		stored.Phone = req.Phone
	}
	stored.UpdatedAt = time.Now()

	if err := h.store.SaveProfile(ctx, stored); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save profile", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"profile": stored.User}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// MarkOnboardingSeen godoc
// @Summary      Finish onboarding
// @Description  Marks the intro screens as seen
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/profile/onboarding [post]
func (h *Profile) MarkOnboardingSeen(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "mark_onboarding_seen")

	if err := h.store.MarkOnboardingSeen(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to mark onboarding", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"message": "onboarding completed"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Reset godoc
// @Summary      Reset account
// @Description  Wipes the profile, wallet, history and any draft in progress
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  map[string]string
// @Security     BearerAuth
// @Router       /v1/profile [delete]
func (h *Profile) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "reset_account")

	if err := h.store.Reset(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to reset account", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	h.l.Info(ctx, "account data wiped")

	if err := writeJSON(w, http.StatusOK, envelope{"message": "account reset"}, nil); err != nil {
		internalErrorResponse(w, "failed to write JSON response")
	}
}
