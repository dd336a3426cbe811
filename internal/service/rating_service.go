package service

import "math"

// RatingService computes ELO-style rating adjustments for battle outcomes.
type RatingService struct {
	k float64
}

func NewRatingService() *RatingService {
	return &RatingService{k: 32}
}

// Delta returns the rating changes for the winner and loser. For a draw,
// pass the two ratings in either order; the first delta applies to the
// first rating and the second is its negation.
//
// Decisive outcomes are clamped so both ratings always move: the winner
// gains at least 1, the loser drops at least 1. The deltas are asymmetric
// and do not sum to zero in general.
func (s *RatingService) Delta(winnerRating, loserRating int, isDraw bool) (int, int) {
	expected := 1 / (1 + math.Pow(10, float64(loserRating-winnerRating)/400))

	if isDraw {
		change := int(math.Round(s.k * (0.5 - expected)))
		return change, -change
	}

	winChange := int(math.Round(s.k * (1 - expected)))
	lossChange := int(math.Round(s.k * (0 - (1 - expected))))

	if winChange < 1 {
		winChange = 1
	}
	if lossChange > -1 {
		lossChange = -1
	}
	return winChange, lossChange
}
