package utils

import (
	"errors"
	"fmt"
	"os"

	"heallink/services/storage"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/spf13/viper"
)

// LoadCloudinaryConfig loads the Cloudinary settings from the YAML file,
// with CLOUDINARY_* environment variables taking precedence. A missing
// file is only an error when the environment doesn't supply credentials
// either.
func LoadCloudinaryConfig() error {
	viper.SetConfigFile("utils/cloudinary.yaml")
	viper.SetConfigType("yaml")

	if v := os.Getenv("CLOUDINARY_CLOUD_NAME"); v != "" {
		viper.Set("cloudinary.cloudName", v)
	}
	if v := os.Getenv("CLOUDINARY_API_KEY"); v != "" {
		viper.Set("cloudinary.apiKey", v)
	}
	if v := os.Getenv("CLOUDINARY_API_SECRET"); v != "" {
		viper.Set("cloudinary.apiSecret", v)
	}
	if v := os.Getenv("CLOUDINARY_ENCRYPTION_KEY"); v != "" {
		viper.Set("cloudinary.encryptionKey", v)
	}

	if err := viper.MergeInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			if viper.GetString("cloudinary.cloudName") != "" {
				return nil
			}
		}
		return fmt.Errorf("error reading cloudinary config file: %w", err)
	}
	return nil
}

// Cloudinary initializes and returns a Cloudinary-backed StorageService.
func Cloudinary() (storage.StorageService, error) {
	if err := LoadCloudinaryConfig(); err != nil {
		return nil, err
	}

	cloudName := viper.GetString("cloudinary.cloudName")
	apiKey := viper.GetString("cloudinary.apiKey")
	apiSecret := viper.GetString("cloudinary.apiSecret")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("utils.Cloudinary: failed to initialize Cloudinary: %w", err)
	}
	return storage.NewStorageService(cld, cloudName), nil
}
