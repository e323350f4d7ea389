//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

package search

import "github.com/frankkopp/chessd/internal/config"

// Difficulty selects the search depth and Lazy-SMP worker count used for a
// move computation
type Difficulty int

const (
	Beginner Difficulty = iota
	Intermediate
	Advanced
	Master
)

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "BEGINNER"
	case Intermediate:
		return "INTERMEDIATE"
	case Advanced:
		return "ADVANCED"
	case Master:
		return "MASTER"
	default:
		return "UNKNOWN"
	}
}

// Depth returns the fixed search depth used for this difficulty.
func (d Difficulty) Depth() int {
	s := config.Settings.Search
	switch d {
	case Beginner:
		return s.DepthBeginner
	case Intermediate:
		return s.DepthIntermediate
	case Advanced:
		return s.DepthAdvanced
	case Master:
		return s.DepthMaster
	default:
		return s.DepthIntermediate
	}
}

// Workers returns the number of Lazy-SMP workers used for this difficulty.
func (d Difficulty) Workers() int {
	s := config.Settings.Search
	switch d {
	case Beginner:
		return s.WorkersBeginner
	case Intermediate:
		return s.WorkersIntermediate
	case Advanced:
		return s.WorkersAdvanced
	case Master:
		return s.WorkersMaster
	default:
		return 1
	}
}
