// Package session 保存单个读者的收藏与待读清单。
//
// Session 由调用方持有并显式传入推荐入口，不做持久化，也不存在全局状态。
package session

import (
	"sync"

	"github.com/rushteam/bookrec/core"
)

// Session 是一个读者的会话状态，可并发使用。
type Session struct {
	mu          sync.RWMutex
	favorites   []core.Favorite
	readingList []string
}

// New 创建空会话。
func New() *Session {
	return &Session{}
}

// AddFavorite 按标题加入收藏；标题已存在时返回 false。
func (s *Session) AddFavorite(title, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexFavorite(title) >= 0 {
		return false
	}
	s.favorites = append(s.favorites, core.Favorite{Title: title, ID: id})
	return true
}

// RemoveFavorite 按标题移除收藏；不存在时返回 false。
func (s *Session) RemoveFavorite(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexFavorite(title)
	if i < 0 {
		return false
	}
	s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
	return true
}

// HasFavorite 判断标题是否已收藏。
func (s *Session) HasFavorite(title string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexFavorite(title) >= 0
}

// Favorites 返回收藏副本，按加入顺序。
func (s *Session) Favorites() []core.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Favorite, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// ClearFavorites 清空收藏。
func (s *Session) ClearFavorites() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = nil
}

// AddToReadingList 加入待读清单；已存在时返回 false。
func (s *Session) AddToReadingList(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexReading(title) >= 0 {
		return false
	}
	s.readingList = append(s.readingList, title)
	return true
}

// RemoveFromReadingList 从待读清单移除；不存在时返回 false。
func (s *Session) RemoveFromReadingList(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexReading(title)
	if i < 0 {
		return false
	}
	s.readingList = append(s.readingList[:i], s.readingList[i+1:]...)
	return true
}

// InReadingList 判断标题是否在待读清单中。
func (s *Session) InReadingList(title string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexReading(title) >= 0
}

// ReadingList 返回待读清单副本。
func (s *Session) ReadingList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.readingList))
	copy(out, s.readingList)
	return out
}

// ClearReadingList 清空待读清单。
func (s *Session) ClearReadingList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readingList = nil
}

func (s *Session) indexFavorite(title string) int {
	for i, f := range s.favorites {
		if f.Title == title {
			return i
		}
	}
	return -1
}

func (s *Session) indexReading(title string) int {
	for i, t := range s.readingList {
		if t == title {
			return i
		}
	}
	return -1
}
