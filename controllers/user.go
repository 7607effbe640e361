package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const defaultGoogleUserinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// UserController handles registration, login and profile requests
type UserController struct {
	Collection *mongo.Collection
	HTTPClient *http.Client
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client) *UserController {
	collection := client.Database(utils.DatabaseName).Collection("users")
	return &UserController{
		Collection: collection,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   os.Getenv("COOKIE_SECURE") == "true",
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}

// publicUser strips fields that never belong in a response.
func publicUser(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
		"avatar": user.Avatar,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error hashing password")
		return
	}

	user := models.User{
		Name:      body.Name,
		Email:     body.Email,
		Password:  string(hashedPassword),
		Role:      "user",
		Favorites: []primitive.ObjectID{},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := uc.Collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusBadRequest, "user already exists")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "error creating user")
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, "account created successfully", nil)
}

// Login authenticates a user and sets the auth cookie
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Email == "" || body.Password == "" {
		utils.RespondError(w, http.StatusUnauthorized, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"email": body.Email}).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error generating token")
		return
	}
	setAuthCookie(w, token)
	utils.RespondSuccess(w, http.StatusOK, fmt.Sprintf("welcome back %s", user.Name), publicUser(&user))
}

// Logout clears the auth cookie
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	utils.RespondSuccess(w, http.StatusOK, "user logged out successfully", nil)
}

// CheckAuth reports the authenticated user attached by the middleware
func (uc *UserController) CheckAuth(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "", publicUser(user))
}

// GetProfile returns the authenticated user's full profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	profile := publicUser(user)
	profile["address"] = user.Address
	utils.RespondSuccess(w, http.StatusOK, "", profile)
}

// UpdateProfile updates the authenticated user's name, address or password
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		Name     *string         `json:"name"`
		Address  *models.Address `json:"address"`
		Password *string         `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := bson.M{}
	if body.Name != nil && *body.Name != "" {
		update["name"] = *body.Name
	}
	if body.Address != nil {
		update["address"] = *body.Address
	}
	if body.Password != nil {
		if *body.Password == "" {
			utils.RespondError(w, http.StatusBadRequest, "password cannot be empty")
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "error hashing password")
			return
		}
		update["password"] = string(hashed)
	}
	if len(update) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if _, err := uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error updating profile")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "profile updated successfully", nil)
}

// googleUserinfo is the subset of Google's userinfo response we use.
type googleUserinfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleLogin exchanges a Google OAuth access token for a local session,
// creating or linking the local account.
func (uc *UserController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AccessToken == "" {
		utils.RespondError(w, http.StatusBadRequest, "access token is required")
		return
	}

	userinfoURL := os.Getenv("GOOGLE_USERINFO_URL")
	if userinfoURL == "" {
		userinfoURL = defaultGoogleUserinfoURL
	}
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, userinfoURL, nil)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "google login failed")
		return
	}
	req.Header.Set("Authorization", "Bearer "+body.AccessToken)

	resp, err := uc.HTTPClient.Do(req)
	if err != nil {
		utils.RespondError(w, http.StatusBadGateway, "google login failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		utils.RespondError(w, http.StatusUnauthorized, "invalid google access token")
		return
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "email not provided by google")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"email": info.Email}).Decode(&user)
	switch {
	case err == mongo.ErrNoDocuments:
		// First sign-in: create a local account with an unusable random
		// password so the record satisfies the same schema.
		hashed, herr := bcrypt.GenerateFromPassword([]byte(randomPassword()), bcrypt.DefaultCost)
		if herr != nil {
			utils.RespondError(w, http.StatusInternalServerError, "google login failed")
			return
		}
		user = models.User{
			Name:     info.Name,
			Email:    info.Email,
			Password: string(hashed),
			Role:     "user",
			GoogleID: info.Sub,
			Avatar:   info.Picture,
		}
		result, ierr := uc.Collection.InsertOne(ctx, user)
		if ierr != nil {
			utils.RespondError(w, http.StatusInternalServerError, "google login failed")
			return
		}
		user.ID = result.InsertedID.(primitive.ObjectID)
	case err != nil:
		utils.RespondError(w, http.StatusInternalServerError, "google login failed")
		return
	default:
		update := bson.M{"google_id": info.Sub}
		if info.Picture != "" {
			update["avatar"] = info.Picture
		}
		if _, uerr := uc.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": update}); uerr != nil {
			utils.RespondError(w, http.StatusInternalServerError, "google login failed")
			return
		}
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error generating token")
		return
	}
	setAuthCookie(w, token)
	utils.RespondSuccess(w, http.StatusOK, fmt.Sprintf("welcome %s", user.Name), publicUser(&user))
}

func randomPassword() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand only fails when the platform RNG is unavailable.
		panic(err)
	}
	return hex.EncodeToString(b)
}
