// Copyright 2026 JMarkets Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/internal/storefront/repo"
	"github.com/jmarkets/jmarkets/pkg/http"
	"github.com/jmarkets/jmarkets/pkg/http/jwt"
	"github.com/jmarkets/jmarkets/pkg/id"
	"github.com/jmarkets/jmarkets/pkg/log"
)

// LoginResp is returned on successful authentication.
type LoginResp struct {
	UserId       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService handles account registration and session management.
type AuthService struct {
	userRepo repo.IUserRepository
	auth     http.Auth
}

func NewAuthService(userRepo repo.IUserRepository, auth http.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		auth:     auth,
	}
}

// Register creates a platform account with a bcrypt-hashed password.
func (s *AuthService) Register(req *model.RegisterUserReq) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || email == "" || req.Password == "" {
		return nil, errors.New("username, email and password are required")
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		UserId:   id.GetUUIDWithoutDashes(),
		Username: req.Username,
		Email:    email,
		Password: string(hash),
	}
	if err := s.userRepo.AddUser(user); err != nil {
		log.Errorw("register user failed", "email", email, "error", err)
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

// Login verifies credentials, issues token pair and records the session
// so it can be revoked before JWT expiry.
func (s *AuthService) Login(req *model.LoginUserReq) (*LoginResp, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, errors.New("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("incorrect email or password")
	}

	aToken, rToken, err := jwt.GenToken(user.UserId, user.Email, []byte(s.auth.SecretKey), s.auth.AccessExpire, s.auth.RefreshExpire)
	if err != nil {
		log.Errorw("generate token failed", "userId", user.UserId, "error", err)
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.userRepo.SetToken(user.UserId, aToken, s.auth); err != nil {
		log.Errorw("store session failed", "userId", user.UserId, "error", err)
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &LoginResp{
		UserId:       user.UserId,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  aToken,
		RefreshToken: rToken,
	}, nil
}

// Logout revokes the user's session.
func (s *AuthService) Logout(userId string) error {
	return s.userRepo.DelToken(userId, s.auth)
}

// GetUser fetches an account by id.
func (s *AuthService) GetUser(userId string) (*model.User, error) {
	return s.userRepo.GetByUserId(userId)
}
