package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("agro_user1"))
	assert.True(t, ValidateUsername("User-Name_20"))

	assert.False(t, ValidateUsername("short"))                    //太短
	assert.False(t, ValidateUsername("thisusernameiswaytoolong")) //太長
	assert.False(t, ValidateUsername("bad name!"))                //不合法字元
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.True(t, ValidateEmail("user.name+tag@mail.example.org"))

	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail("@example.com"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Abcdef1!"))

	assert.False(t, ValidatePassword("Abc1!"))     //太短
	assert.False(t, ValidatePassword("abcdef1!"))  //沒有大寫
	assert.False(t, ValidatePassword("ABCDEF1!"))  //沒有小寫
	assert.False(t, ValidatePassword("Abcdefg!"))  //沒有數字
	assert.False(t, ValidatePassword("Abcdefg1"))  //沒有特殊字元
	assert.False(t, ValidatePassword("Abcdef 1!")) //含空白
}

func TestMakeSlug(t *testing.T) {
	assert.Equal(t, "organic-brown-rice", MakeSlug("Organic Brown Rice"))
	assert.Equal(t, "fresh-eggs-12-pack", MakeSlug("Fresh Eggs (12 Pack)"))
	assert.Equal(t, "a-b", MakeSlug("  A -- B  "))
}
