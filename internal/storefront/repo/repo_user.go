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

package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jmarkets/jmarkets/internal/storefront/model"
	"github.com/jmarkets/jmarkets/pkg/cache"
	"github.com/jmarkets/jmarkets/pkg/database"
	"github.com/jmarkets/jmarkets/pkg/http"
)

type IUserRepository interface {
	AddUser(user *model.User) error
	GetByUserId(userId string) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	// SetToken stores the session marker keyed by user id so tokens can
	// be revoked ahead of their JWT expiry.
	SetToken(userId, token string, auth http.Auth) error
	DelToken(userId string, auth http.Auth) error
}

type UserRepo struct {
	db        database.IDatabase
	cache     cache.ICache
	userModel *model.User
}

func NewUserRepo(db database.IDatabase, cache cache.ICache) IUserRepository {
	return &UserRepo{
		db:        db,
		cache:     cache,
		userModel: &model.User{},
	}
}

func (ur *UserRepo) AddUser(user *model.User) error {
	return ur.db.Database().Create(user).Error
}

func (ur *UserRepo) GetByUserId(userId string) (*model.User, error) {
	var user model.User
	err := ur.db.Database().Where("user_id = ?", userId).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UserRepo) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := ur.db.Database().
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UserRepo) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := ur.db.Database().Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *UserRepo) SetToken(userId, token string, auth http.Auth) error {
	key := auth.RedisKeyPrefix + userId
	return ur.cache.Set(context.Background(), key, token, auth.AccessExpire).Err()
}

func (ur *UserRepo) DelToken(userId string, auth http.Auth) error {
	key := auth.RedisKeyPrefix + userId
	return ur.cache.Del(context.Background(), key).Err()
}
