package tiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		sub  Subscriber
		want Tier
	}{
		{"empty subscriber", Subscriber{}, TierNone},
		{"monthly plan", Subscriber{Plan: PlanMonthly}, TierMonthly},
		{"annual plan", Subscriber{Plan: PlanAnnual}, TierAnnual},
		{"founding without plan", Subscriber{IsFoundingMember: true}, TierFounding},
		{"founding beats annual", Subscriber{Plan: PlanAnnual, IsFoundingMember: true}, TierFounding},
		{"admin beats founding", Subscriber{Plan: PlanMonthly, IsFoundingMember: true, IsAdmin: true}, TierAdmin},
		{"unknown plan", Subscriber{Plan: PlanType("lifetime")}, TierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sub))
		})
	}
}

func TestTier_AtLeast(t *testing.T) {
	assert.True(t, TierAdmin.AtLeast(TierFounding))
	assert.True(t, TierFounding.AtLeast(TierAdmin))
	assert.True(t, TierFounding.AtLeast(TierAnnual))
	assert.True(t, TierAnnual.AtLeast(TierMonthly))
	assert.False(t, TierMonthly.AtLeast(TierAnnual))
	assert.False(t, TierNone.AtLeast(TierMonthly))

	assert.True(t, TierAnnual.IsAnnualOrAbove())
	assert.True(t, TierAdmin.IsAnnualOrAbove())
	assert.False(t, TierMonthly.IsAnnualOrAbove())
	assert.False(t, Tier("").IsAnnualOrAbove())
}

func TestParse(t *testing.T) {
	assert.Equal(t, TierAnnual, Parse(" Annual "))
	assert.Equal(t, TierAdmin, Parse("admin"))
	assert.Equal(t, TierNone, Parse(""))
	assert.Equal(t, TierNone, Parse("platinum"))
}

func TestParsePlanType(t *testing.T) {
	assert.Equal(t, PlanMonthly, ParsePlanType("month"))
	assert.Equal(t, PlanMonthly, ParsePlanType("Monthly"))
	assert.Equal(t, PlanAnnual, ParsePlanType("year"))
	assert.Equal(t, PlanAnnual, ParsePlanType("annual"))
	assert.Equal(t, PlanNone, ParsePlanType("week"))
}

func TestAllIsOrdered(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		assert.True(t, all[i].AtLeast(all[i-1]), "%s >= %s", all[i], all[i-1])
		assert.True(t, all[i].Valid())
	}
}
