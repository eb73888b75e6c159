package tools

import (
	"context"
	"fmt"

	"github.com/drujensen/wearables/internal/domain/entities"
)

type deviceInfoArgs struct{}

type deviceInfoTool struct {
	env Env
}

func newDeviceInfoTool(env Env) *deviceInfoTool {
	return &deviceInfoTool{env: env}
}

func deviceInfoSpec() *entities.ToolSpec {
	return &entities.ToolSpec{
		Name:        DeviceInfo.String(),
		Description: "Get the user's wearable device details and profile information (name, age, height, weight).",
		Parameters:  []entities.Parameter{},
	}
}

func (t *deviceInfoTool) run(ctx context.Context, _ deviceInfoArgs) (string, error) {
	profile, err := t.env.Repo.GetDeviceProfile(ctx, t.env.UserID)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "No device information found", nil
	}

	return fmt.Sprintf("👤 User: %s (%d years old, %s)\n"+
		"📏 Height: %s cm, Weight: %s kg\n\n"+
		"⌚ Device Information:\n"+
		"  • Type: %s\n"+
		"  • Brand: %s\n"+
		"  • Model: %s\n"+
		"  • Purchase Date: %s",
		profile.UserName, profile.Age, profile.Gender,
		formatDecimal(profile.HeightCm), formatDecimal(profile.WeightKg),
		profile.DeviceType, profile.Brand, profile.Model, profile.PurchaseDate), nil
}
