// Package web is the thin HTTP route layer over the wiki backend. It owns
// everything the backend deliberately does not: sessions, password salting,
// form decoding and user-facing messages. Only plain values cross into the
// backend.
package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teamawesome/wikistore/internal/backend"
	"github.com/teamawesome/wikistore/internal/common"
	"github.com/teamawesome/wikistore/internal/config"
	"github.com/teamawesome/wikistore/internal/logging"
)

// maxUploadBytes bounds multipart form memory usage per request.
const maxUploadBytes = 32 << 20

// aboutImages are the founder portraits shown on the about page.
var aboutImages = []string{"camila.png", "sarah.png", "ricardo.png"}

type Handler struct {
	cfg     *config.Config
	backend *backend.Backend
	logger  logging.Logger
}

// New registers all routes and returns the root http.Handler.
func New(cfg *config.Config, b *backend.Backend, logger logging.Logger) http.Handler {
	h := &Handler{cfg: cfg, backend: b, logger: logger}

	r := chi.NewRouter()
	r.Use(requestLog(logger))
	r.Use(h.withSession)

	r.Get("/", h.home)
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Get("/pages", h.pages)
	r.Get("/pages/{title}", h.page)
	r.Get("/about", h.about)
	r.Get("/contributors", h.contributors)

	r.Get("/faq", h.faqList)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Post("/upload", h.upload)
		r.Delete("/files/{name}", h.deleteFile)

		r.Post("/faq", h.faqSubmit)
		r.Post("/faq/{number}/replies", h.faqReply)

		r.Get("/profile", h.profile)
		r.Post("/profile/picture", h.changeProfilePicture)
		r.Post("/profile/picture/remove", h.removeProfilePicture)
		r.Post("/profile/username", h.changeUsername)
		r.Post("/profile/password", h.changePassword)
	})

	return r
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

// respondInternal maps any propagated backend error to a generic failure:
// no attempt is made to render partial results from a corrupt document or
// an unreachable store.
func (h *Handler) respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error(r.Context(), "backend failure", "path", r.URL.Path, "error", err.Error())
	h.respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

// --- account ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	hash := PasswordHash(req.Username, h.cfg.SiteSecret, req.Password)
	ok, err := h.backend.SignUp(r.Context(), req.Username, hash)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusConflict, "Username already exists. Please login or choose a different username.")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Account successfully created! Please login to continue.",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil || req.Username == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	hash := PasswordHash(req.Username, h.cfg.SiteSecret, req.Password)
	ok, err := h.backend.SignIn(r.Context(), req.Username, hash)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Invalid username or password. Please try again.")
		return
	}

	if err := h.setSessionCookie(w, req.Username); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"user_name": req.Username})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, username string) error {
	token, err := generateSessionToken(username, []byte(h.cfg.SessionSecret), h.cfg.SessionValidityDuration)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.cfg.SessionValidityDuration),
	})
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out."})
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	if username, ok := usernameFrom(r.Context()); ok {
		h.respondJSON(w, http.StatusOK, map[string]string{"user_name": username})
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{})
}

// --- content ---

func (h *Handler) pages(w http.ResponseWriter, r *http.Request) {
	names, err := h.backend.GetAllPageNames(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"pages": names})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	content, err := h.backend.GetWikiPage(r.Context(), title)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.respondError(w, http.StatusNotFound, "Page not found.")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"page_content": content})
}

func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	images, err := h.backend.GetImages(r.Context(), aboutImages)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"image_datas": encoded})
}

func (h *Handler) contributors(w http.ResponseWriter, r *http.Request) {
	names, err := h.backend.GetContributors(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"contributors": names})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	displayName := r.FormValue("file_name")
	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "No file selected.")
		return
	}
	defer file.Close()

	if displayName == "" {
		h.respondError(w, http.StatusBadRequest, "File name is required.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}

	ok, err := h.backend.Upload(r.Context(), username, displayName, data, header.Filename)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusConflict, "File name is taken.")
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "File uploaded successfully."})
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())
	name := chi.URLParam(r, "name")

	remaining, err := h.backend.DeleteFile(r.Context(), username, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.respondError(w, http.StatusNotFound, "File not found.")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"uploaded_files": remaining})
}

// --- faq ---

func (h *Handler) faqList(w http.ResponseWriter, r *http.Request) {
	questions, err := h.backend.GetFAQ(r.Context())
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"FAQ": questions})
}

func (h *Handler) faqSubmit(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	var req struct {
		Question string `json:"question"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Question) == "" {
		h.respondError(w, http.StatusBadRequest, "Question text is required.")
		return
	}

	if err := h.backend.SubmitQuestion(r.Context(), username, req.Question); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Question submitted."})
}

func (h *Handler) faqReply(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid question number.")
		return
	}

	var req struct {
		Reply string `json:"reply"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Reply) == "" {
		h.respondError(w, http.StatusBadRequest, "Reply text is required.")
		return
	}

	if err := h.backend.SubmitReply(r.Context(), username, req.Reply, number); err != nil {
		if errors.Is(err, common.ErrorOutOfRange) {
			h.respondError(w, http.StatusNotFound, "No such question.")
			return
		}
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Reply submitted."})
}

// --- profile ---

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	user, err := h.backend.GetUser(r.Context(), username)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	files, err := h.backend.GetUserFiles(r.Context(), username)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"username":        user.Username,
		"profile_picture": user.ProfilePicture,
		"uploaded_files":  files,
	})
}

func (h *Handler) changeProfilePicture(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "No file selected.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid upload.")
		return
	}

	ok, err := h.backend.ChangeProfilePicture(r.Context(), username, data, header.Filename)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Unsupported image type. Use png, jpg, jpeg or gif.")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Profile picture updated."})
}

func (h *Handler) removeProfilePicture(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	if _, err := h.backend.RemoveProfilePicture(r.Context(), username); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Profile picture removed."})
}

func (h *Handler) changeUsername(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	// The password is needed because stored hashes are salted with the
	// username: after a rename the credential must be re-derived under the
	// new name or the next login would fail.
	var req struct {
		NewUsername string `json:"new_username"`
		Password    string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil || req.NewUsername == "" || req.Password == "" {
		h.respondError(w, http.StatusBadRequest, "New username and current password are required.")
		return
	}

	oldHash := PasswordHash(username, h.cfg.SiteSecret, req.Password)
	authed, err := h.backend.SignIn(r.Context(), username, oldHash)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !authed {
		h.respondError(w, http.StatusForbidden, "Incorrect password.")
		return
	}

	ok, err := h.backend.ChangeUsername(r.Context(), username, req.NewUsername)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusConflict, "Username already exists. Please choose a different username.")
		return
	}

	newHash := PasswordHash(req.NewUsername, h.cfg.SiteSecret, req.Password)
	if _, err := h.backend.ChangePassword(r.Context(), req.NewUsername, oldHash, newHash); err != nil {
		h.respondInternal(w, r, err)
		return
	}

	// the old session names the old username; reissue
	if err := h.setSessionCookie(w, req.NewUsername); err != nil {
		h.respondInternal(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"user_name": req.NewUsername})
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	username, _ := usernameFrom(r.Context())

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeBody(r, &req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		h.respondError(w, http.StatusBadRequest, "Current and new passwords are required.")
		return
	}

	currentHash := PasswordHash(username, h.cfg.SiteSecret, req.CurrentPassword)
	newHash := PasswordHash(username, h.cfg.SiteSecret, req.NewPassword)

	ok, err := h.backend.ChangePassword(r.Context(), username, currentHash, newHash)
	if err != nil {
		h.respondInternal(w, r, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusForbidden, "Incorrect current password.")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Password changed."})
}
