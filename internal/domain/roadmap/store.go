package roadmap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CastVote creates or replaces the user's vote on an item and refreshes the
// item's weighted tallies in the same transaction.
//
// pass db in, do NOT import defi-academy/database here (avoids import cycle).
func CastVote(ctx context.Context, db *gorm.DB, now time.Time, itemID, userID uint, power VotingPower, voteType VoteType) (Item, Vote, error) {
	var (
		item Item
		vote Vote
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = lockItem(tx, itemID); err != nil {
			return err
		}
		if err := CheckCast(now, item, power, voteType); err != nil {
			return err
		}

		vote = Vote{
			ItemID:    itemID,
			UserID:    userID,
			Type:      voteType,
			Weight:    power.Weight,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "weight", "updated_at"}),
		}).Create(&vote).Error; err != nil {
			return fmt.Errorf("failed to upsert vote: %w", err)
		}

		item, err = refreshTallies(tx, item)
		return err
	})
	if err != nil {
		return Item{}, Vote{}, err
	}
	return item, vote, nil
}

// RemoveVote deletes the user's vote; its weight drops out of the tallies.
func RemoveVote(ctx context.Context, db *gorm.DB, now time.Time, itemID, userID uint) (Item, error) {
	var item Item

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = lockItem(tx, itemID); err != nil {
			return err
		}
		if !item.VotingOpen(now) {
			return ErrVotingClosed
		}

		res := tx.Where("item_id = ? AND user_id = ?", itemID, userID).Delete(&Vote{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete vote: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoVote
		}

		item, err = refreshTallies(tx, item)
		return err
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// UserVotes returns the user's votes keyed by item id.
func UserVotes(ctx context.Context, db *gorm.DB, userID uint, itemIDs []uint) (map[uint]Vote, error) {
	out := make(map[uint]Vote, len(itemIDs))
	if userID == 0 || len(itemIDs) == 0 {
		return out, nil
	}

	var votes []Vote
	if err := db.WithContext(ctx).
		Where("user_id = ? AND item_id IN ?", userID, itemIDs).
		Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("failed to load user votes: %w", err)
	}
	for _, v := range votes {
		out[v.ItemID] = v
	}
	return out, nil
}

// SetStatus moves an item along its lifecycle. Completing an item also ends
// its voting window.
func SetStatus(ctx context.Context, db *gorm.DB, now time.Time, itemID uint, to Status) (Item, error) {
	var item Item

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = lockItem(tx, itemID); err != nil {
			return err
		}
		if err := Transition(item.Status, to); err != nil {
			return err
		}

		item.Status = to
		if to == StatusCompleted {
			item.CloseVoting(now)
		}
		return tx.Model(&Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"status":         item.Status,
			"voting_ends_at": item.VotingEndsAt,
		}).Error
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

func CloseItemVoting(ctx context.Context, db *gorm.DB, now time.Time, itemID uint) (Item, error) {
	var item Item

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if item, err = lockItem(tx, itemID); err != nil {
			return err
		}
		item.CloseVoting(now)
		return tx.Model(&Item{}).Where("id = ?", item.ID).Update("voting_ends_at", item.VotingEndsAt).Error
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// lockItem loads the item, row-locked on postgres so concurrent casts on the
// same item serialize around the tally refresh.
func lockItem(tx *gorm.DB, itemID uint) (Item, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item Item
	if err := q.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("failed to load roadmap item: %w", err)
	}
	return item, nil
}

func refreshTallies(tx *gorm.DB, item Item) (Item, error) {
	var t struct {
		YesVotes int
		NoVotes  int
	}
	if err := tx.Model(&Vote{}).
		Where("item_id = ?", item.ID).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN weight ELSE 0 END), 0) AS yes_votes, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN weight ELSE 0 END), 0) AS no_votes",
			VoteYes, VoteNo,
		).
		Scan(&t).Error; err != nil {
		return Item{}, fmt.Errorf("failed to tally votes: %w", err)
	}

	item.YesVotes = t.YesVotes
	item.NoVotes = t.NoVotes
	if err := tx.Model(&Item{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
		"yes_votes": item.YesVotes,
		"no_votes":  item.NoVotes,
	}).Error; err != nil {
		return Item{}, fmt.Errorf("failed to store tallies: %w", err)
	}
	return item, nil
}
