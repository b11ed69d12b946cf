package db

import (
	"context"
	"fmt"
	"time"

	"github.com/flotasur/fleet-maintenance/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func optionsFindNewestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func optionsFindBySequence() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "secuencia", Value: 1}})
}

// MongoEquipmentCollection implements EquipmentCollection for MongoDB.
type MongoEquipmentCollection struct {
	Collection *mongo.Collection
}

// FindEquipmentByFicha finds one equipment by its asset tag.
func (c *MongoEquipmentCollection) FindEquipmentByFicha(ctx context.Context, ficha string) (*models.Equipment, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var eq models.Equipment
	err := c.Collection.FindOne(ctx, bson.M{"ficha": ficha}).Decode(&eq)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("equipment not found")
		}
		return nil, err
	}
	return &eq, nil
}

// FindEquipment returns the full equipment snapshot. An empty fleet yields
// an empty slice, not an error.
func (c *MongoEquipmentCollection) FindEquipment(ctx context.Context) ([]models.Equipment, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.Equipment{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MongoPlanCollection implements PlanCollection for MongoDB.
type MongoPlanCollection struct {
	Collection *mongo.Collection
}

// FindActivePlans returns the active plan snapshot, in stored order. Stored
// order matters: equal-score ties during resolution keep it.
func (c *MongoPlanCollection) FindActivePlans(ctx context.Context) ([]models.MaintenancePlan, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.MaintenancePlan{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindPlanByID finds one plan by its plan_id.
func (c *MongoPlanCollection) FindPlanByID(ctx context.Context, planID string) (*models.MaintenancePlan, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var plan models.MaintenancePlan
	err := c.Collection.FindOne(ctx, bson.M{"plan_id": planID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("plan not found")
		}
		return nil, err
	}
	return &plan, nil
}

// MongoOverrideCollection implements OverrideCollection for MongoDB.
type MongoOverrideCollection struct {
	Collection *mongo.Collection
}

// InsertOverride inserts a new override record.
func (c *MongoOverrideCollection) InsertOverride(ctx context.Context, override models.Override) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	override.CreatedAt = time.Now()
	override.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, override)
	return err
}

// FindOverridesByFicha returns every override (active and historical) for
// one equipment, newest first, forming the audit trail.
func (c *MongoOverrideCollection) FindOverridesByFicha(ctx context.Context, ficha string) ([]models.Override, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := optionsFindNewestFirst()
	cursor, err := c.Collection.Find(ctx, bson.M{"ficha_equipo": ficha}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.Override{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindActiveOverrides returns the active override snapshot for the whole
// fleet.
func (c *MongoOverrideCollection) FindActiveOverrides(ctx context.Context) ([]models.Override, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"activo": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.Override{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateOverrides marks every active override for one equipment as
// inactive and returns how many were touched.
func (c *MongoOverrideCollection) DeactivateOverrides(ctx context.Context, ficha string) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.UpdateMany(
		ctx,
		bson.M{"ficha_equipo": ficha, "activo": true},
		bson.M{"$set": bson.M{"activo": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// ReactivateOverride sets one override back to active by its override_id.
// Used when rolling a mutation back to the last known-good state.
func (c *MongoOverrideCollection) ReactivateOverride(ctx context.Context, overrideID string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"override_id": overrideID},
		bson.M{"$set": bson.M{"activo": true, "updated_at": time.Now()}},
	)
	return err
}

// DeleteOverride removes one override by its override_id. Only used to roll
// back an apply that failed confirmation; reverting to automatic suggestion
// goes through DeactivateOverrides instead.
func (c *MongoOverrideCollection) DeleteOverride(ctx context.Context, overrideID string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.DeleteOne(ctx, bson.M{"override_id": overrideID})
	return err
}

// MongoPlanningCollection implements PlanningCollection for MongoDB.
type MongoPlanningCollection struct {
	Collection *mongo.Collection
}

// InsertPlanningRecord inserts one persisted schedule entry.
func (c *MongoPlanningCollection) InsertPlanningRecord(ctx context.Context, record models.PlanningRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, record)
	return err
}

// FindPlanningByFicha returns the persisted schedule entries for one
// equipment in sequence order.
func (c *MongoPlanningCollection) FindPlanningByFicha(ctx context.Context, ficha string) ([]models.PlanningRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := optionsFindBySequence()
	cursor, err := c.Collection.Find(ctx, bson.M{"ficha_equipo": ficha}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	out := []models.PlanningRecord{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
