package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"scribehub/models"
	"scribehub/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrEmailNotVerified   = errors.New("email not verified")
)

const (
	oauthStateExpiration = 10 * time.Minute
	resetTokenExpiration = 1 * time.Hour
)

type AuthService struct {
	userCollection     *mongo.Collection
	jwtSecret          string
	jwtExpiration      time.Duration
	googleClientID     string
	googleClientSecret string
	redirectURL        string
	stateManager       *StateManager
}

// StateManager tracks one-time OAuth states.
type StateManager struct {
	states map[string]stateInfo
	mu     sync.Mutex
}

type stateInfo struct {
	ExpiresAt time.Time
}

func NewStateManager() *StateManager {
	sm := &StateManager{
		states: make(map[string]stateInfo),
	}
	go sm.startCleanupRoutine()
	return sm
}

func (sm *StateManager) Store(state string, duration time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.states[state] = stateInfo{ExpiresAt: time.Now().Add(duration)}
}

// Validate consumes the state; each state is single use.
func (sm *StateManager) Validate(state string) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	info, exists := sm.states[state]
	if !exists {
		return false
	}
	delete(sm.states, state)
	return time.Now().Before(info.ExpiresAt)
}

func (sm *StateManager) startCleanupRoutine() {
	ticker := time.NewTicker(2 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		sm.mu.Lock()
		now := time.Now()
		for state, info := range sm.states {
			if now.After(info.ExpiresAt) {
				delete(sm.states, state)
			}
		}
		sm.mu.Unlock()
	}
}

type GoogleTokenInfo struct {
	ID            string       `json:"sub"`
	Email         string       `json:"email"`
	EmailVerified FlexibleBool `json:"email_verified"`
	Name          string       `json:"name"`
	Picture       string       `json:"picture"`
}

type GoogleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
}

// FlexibleBool accepts both boolean and "true"/"false" string values;
// Google's tokeninfo endpoint returns either.
type FlexibleBool bool

func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	*fb = str == "true"
	return nil
}

func NewAuthService(db *mongo.Database, jwtSecret string, jwtExpiration time.Duration, googleClientID, googleClientSecret, redirectURL string) *AuthService {
	service := &AuthService{
		userCollection:     db.Collection("users"),
		jwtSecret:          jwtSecret,
		jwtExpiration:      jwtExpiration,
		googleClientID:     googleClientID,
		googleClientSecret: googleClientSecret,
		redirectURL:        redirectURL,
		stateManager:       NewStateManager(),
	}

	service.createIndexes()
	return service
}

func (s *AuthService) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	googleIDIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "google_id", Value: 1}},
	}

	_, err := s.userCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{emailIndex, googleIDIndex})
	if err != nil {
		// Indexes might already exist
		utils.LogWarning(fmt.Sprintf("failed to create user indexes: %v", err))
	}
}

// Register creates a local account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := models.User{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Email:         email,
		Password:      string(hash),
		Notifications: []models.Notification{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateJWTToken(&user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return &user, token, nil
}

// Login verifies a local account's credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWTToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	if user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
			return ErrInvalidCredentials
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"password":   string(hash),
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// CreatePasswordResetToken stores a one-hour reset token for the user
// and returns it. Unknown emails return ErrUserNotFound; the caller
// decides whether to reveal that.
func (s *AuthService) CreatePasswordResetToken(ctx context.Context, email string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(tokenBytes)
	expires := time.Now().Add(resetTokenExpiration)

	_, err = s.userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"reset_password_token":   token,
		"reset_password_expires": expires,
		"updated_at":             time.Now(),
	}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return user, token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":   string(hash),
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (s *AuthService) GenerateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}

	state := base64.RawURLEncoding.EncodeToString(bytes)
	s.stateManager.Store(state, oauthStateExpiration)
	return state, nil
}

func (s *AuthService) ValidateState(state string) bool {
	return s.stateManager.Validate(state)
}

func (s *AuthService) GetGoogleAuthURL(state string) string {
	params := url.Values{
		"client_id":     {s.googleClientID},
		"redirect_uri":  {s.redirectURL},
		"scope":         {"openid email profile"},
		"response_type": {"code"},
		"state":         {state},
	}

	return "https://accounts.google.com/o/oauth2/auth?" + params.Encode()
}

// HandleGoogleCallback exchanges the authorization code, validates the
// ID token and returns the signed-in user with a JWT.
func (s *AuthService) HandleGoogleCallback(ctx context.Context, code string) (*models.User, string, error) {
	tokenResponse, err := s.exchangeCodeForTokens(code)
	if err != nil {
		return nil, "", err
	}

	googleInfo, err := s.validateGoogleIDToken(tokenResponse.IDToken)
	if err != nil {
		return nil, "", err
	}

	user, err := s.createOrUpdateGoogleUser(ctx, googleInfo)
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWTToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) exchangeCodeForTokens(code string) (*GoogleTokenResponse, error) {
	data := url.Values{
		"client_id":     {s.googleClientID},
		"client_secret": {s.googleClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {s.redirectURL},
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.PostForm("https://oauth2.googleapis.com/token", data)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code for tokens: %w", err)
	}
	defer resp.Body.Close()

	var tokenResponse GoogleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.Error != "" {
		return nil, fmt.Errorf("OAuth token exchange error: %s", tokenResponse.Error)
	}
	if tokenResponse.AccessToken == "" {
		return nil, errors.New("no access token received")
	}

	return &tokenResponse, nil
}

func (s *AuthService) validateGoogleIDToken(idToken string) (*GoogleTokenInfo, error) {
	if idToken == "" {
		return nil, errors.New("ID token is required")
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(idToken))
	if err != nil {
		return nil, fmt.Errorf("failed to validate ID token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid ID token: HTTP %d", resp.StatusCode)
	}

	var tokenInfo GoogleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to decode token info: %w", err)
	}

	if tokenInfo.Email == "" {
		return nil, errors.New("email missing in token")
	}
	if !bool(tokenInfo.EmailVerified) {
		return nil, ErrEmailNotVerified
	}

	return &tokenInfo, nil
}

func (s *AuthService) createOrUpdateGoogleUser(ctx context.Context, googleInfo *GoogleTokenInfo) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": googleInfo.Email}).Decode(&user)

	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			ID:            primitive.NewObjectID(),
			GoogleID:      googleInfo.ID,
			Email:         googleInfo.Email,
			Name:          googleInfo.Name,
			ProfilePic:    googleInfo.Picture,
			Notifications: []models.Notification{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	updateFields := bson.M{
		"google_id":   googleInfo.ID,
		"profile_pic": googleInfo.Picture,
		"updated_at":  time.Now(),
	}

	if _, err := s.userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": updateFields}); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := s.userCollection.FindOne(ctx, bson.M{"_id": user.ID}).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to fetch updated user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
